package logger

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/DataDog/datadog-api-client-go/v2/api/datadog"
	"github.com/DataDog/datadog-api-client-go/v2/api/datadogV2"
	"github.com/rs/zerolog"
)

const (
	dataDogQueueSize        = 1024
	dataDogDefaultBatchSize = 50
	dataDogDefaultTimeout   = 5 * time.Second
	dataDogFlushInterval    = 2 * time.Second
)

var (
	ddMu     sync.Mutex      //nolint:gochecknoglobals
	ddWriter *DataDogWriter //nolint:gochecknoglobals
)

// LogSubmitter sends a batch of log items, implemented by datadogV2.LogsApi.
type LogSubmitter interface {
	SubmitLog(
		ctx context.Context,
		body []datadogV2.HTTPLogItem,
		o ...datadogV2.SubmitLogOptionalParameters,
	) (interface{}, *http.Response, error)
}

// DataDogWriter ships log lines asynchronously in batches.
// Lines are dropped when the queue is full so logging never blocks a request.
type DataDogWriter struct {
	api       LogSubmitter
	ctx       context.Context
	queue     chan []byte
	done      chan struct{}
	closeOnce sync.Once

	service  string
	tags     string
	hostname string
	batch    int
	timeout  time.Duration
}

// NewDataDogWriter creates a writer for the DataDog logs intake.
// A nil api builds the real LogsApi client from cfg.DataDog.
func NewDataDogWriter(cfg Log, api LogSubmitter) (*DataDogWriter, error) {
	dd := cfg.DataDog

	if dd.APIKey == "" && api == nil {
		return nil, ErrDataDogAPIKeyIsEmpty
	}

	ctx := context.WithValue(
		context.Background(),
		datadog.ContextAPIKeys,
		map[string]datadog.APIKey{"apiKeyAuth": {Key: dd.APIKey}},
	)

	if dd.Site != "" {
		ctx = context.WithValue(ctx, datadog.ContextServerVariables, map[string]string{"site": dd.Site})
	}

	if api == nil {
		configuration := datadog.NewConfiguration()
		if len(dd.Servers) > 0 {
			configuration.Servers = dd.Servers
		}

		api = datadogV2.NewLogsApi(datadog.NewAPIClient(configuration))
	}

	hostname, _ := os.Hostname()

	w := &DataDogWriter{
		api:      api,
		ctx:      ctx,
		queue:    make(chan []byte, dataDogQueueSize),
		done:     make(chan struct{}),
		service:  dd.ServiceName,
		tags:     "env:" + cfg.LogEnv + ",app:" + cfg.AppName,
		hostname: hostname,
		batch:    dd.BatchSize,
		timeout:  dd.Timeout,
	}

	if w.service == "" {
		w.service = cfg.ServiceName
	}

	if w.batch <= 0 {
		w.batch = dataDogDefaultBatchSize
	}

	if w.timeout <= 0 {
		w.timeout = dataDogDefaultTimeout
	}

	go w.run()

	return w, nil
}

// Write queues a copy of p, zerolog reuses its buffers.
func (w *DataDogWriter) Write(p []byte) (int, error) {
	line := make([]byte, len(p))
	copy(line, p)

	select {
	case w.queue <- line:
	default:
	}

	return len(p), nil
}

// Close flushes queued lines and stops the sender.
func (w *DataDogWriter) Close() {
	w.closeOnce.Do(func() {
		close(w.queue)
		<-w.done
	})
}

func (w *DataDogWriter) run() {
	defer close(w.done)

	ticker := time.NewTicker(dataDogFlushInterval)
	defer ticker.Stop()

	items := make([]datadogV2.HTTPLogItem, 0, w.batch)

	for {
		select {
		case line, ok := <-w.queue:
			if !ok {
				w.send(items)

				return
			}

			items = append(items, w.item(line))
			if len(items) >= w.batch {
				w.send(items)
				items = items[:0]
			}
		case <-ticker.C:
			w.send(items)
			items = items[:0]
		}
	}
}

func (w *DataDogWriter) item(line []byte) datadogV2.HTTPLogItem {
	return datadogV2.HTTPLogItem{
		Ddsource: datadog.PtrString("go"),
		Ddtags:   datadog.PtrString(w.tags),
		Hostname: datadog.PtrString(w.hostname),
		Message:  string(line),
		Service:  datadog.PtrString(w.service),
	}
}

func (w *DataDogWriter) send(items []datadogV2.HTTPLogItem) {
	if len(items) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	batch := make([]datadogV2.HTTPLogItem, len(items))
	copy(batch, items)

	if _, _, err := w.api.SubmitLog(ctx, batch); err != nil {
		// the global logger writes to this writer, report on stderr only
		ErrorHandler(err)
	}
}

func setDataDog(w *DataDogWriter) {
	ddMu.Lock()
	defer ddMu.Unlock()

	ddWriter = w
}

func closeDataDog() {
	ddMu.Lock()
	w := ddWriter
	ddWriter = nil
	ddMu.Unlock()

	if w != nil {
		w.Close()
	}
}

var _ zerolog.LevelWriter = (*LevelWriter)(nil)
