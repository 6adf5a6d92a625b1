package daemon

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/apota/mydms-sub010/internal/auth"
	"github.com/apota/mydms-sub010/internal/config"
	"github.com/apota/mydms-sub010/internal/db/models"
	"github.com/apota/mydms-sub010/internal/gateway"
	"github.com/apota/mydms-sub010/internal/repository"
	"github.com/apota/mydms-sub010/internal/repository/dynamo"
	"github.com/apota/mydms-sub010/internal/scheduler"
	crmsvc "github.com/apota/mydms-sub010/internal/service/crm"
	demosvc "github.com/apota/mydms-sub010/internal/service/demo"
	financialsvc "github.com/apota/mydms-sub010/internal/service/financial"
	inventorysvc "github.com/apota/mydms-sub010/internal/service/inventory"
	loginsvc "github.com/apota/mydms-sub010/internal/service/login"
	partssvc "github.com/apota/mydms-sub010/internal/service/parts"
	repairsvc "github.com/apota/mydms-sub010/internal/service/repair"
	reportingsvc "github.com/apota/mydms-sub010/internal/service/reporting"
	salessvc "github.com/apota/mydms-sub010/internal/service/sales"
	settingsvc "github.com/apota/mydms-sub010/internal/service/settings"
	usersvc "github.com/apota/mydms-sub010/internal/service/users"
	"github.com/apota/mydms-sub010/internal/web"
	"github.com/apota/mydms-sub010/internal/web/handler"
	"github.com/apota/mydms-sub010/internal/web/handler/auth/oidc"
	"github.com/apota/mydms-sub010/internal/web/handler/crm"
	"github.com/apota/mydms-sub010/internal/web/handler/demo"
	"github.com/apota/mydms-sub010/internal/web/handler/financial"
	"github.com/apota/mydms-sub010/internal/web/handler/inventory"
	"github.com/apota/mydms-sub010/internal/web/handler/login"
	"github.com/apota/mydms-sub010/internal/web/handler/logout"
	"github.com/apota/mydms-sub010/internal/web/handler/parts"
	"github.com/apota/mydms-sub010/internal/web/handler/repair"
	"github.com/apota/mydms-sub010/internal/web/handler/reporting"
	"github.com/apota/mydms-sub010/internal/web/handler/sales"
	"github.com/apota/mydms-sub010/internal/web/handler/settings"
	"github.com/apota/mydms-sub010/internal/web/handler/users"
	"github.com/apota/mydms-sub010/internal/web/session"
)

// DefaultSettingsTable is the DynamoDB table of the settings backend.
const DefaultSettingsTable = "dms-settings"

type builder func(ctx context.Context, d *Daemon) (*web.Service, error)

var builders = map[string]builder{ //nolint:gochecknoglobals
	"settings":  buildSettings,
	"users":     buildUsers,
	"crm":       buildCRM,
	"demo":      buildDemo,
	"inventory": buildInventory,
	"sales":     buildSales,
	"service":   buildRepair,
	"parts":     buildParts,
	"financial": buildFinancial,
	"reporting": buildReporting,
	"login":     buildLogin,
	"gateway":   buildGateway,
}

// Names returns the service names the daemon can build.
func Names() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}

	return names
}

// redis returns the shared client as an interface, nil when not configured.
func (d *Daemon) redis() redis.UniversalClient {
	if d.rdb == nil {
		return nil
	}

	return d.rdb
}

// mount creates the web service name and registers the handlers on it.
func (d *Daemon) mount(name, title, module string, handlers ...handler.Service) (*web.Service, error) {
	return d.mountWith(web.Options{Name: name, Title: title, Module: module}, handlers...)
}

func (d *Daemon) mountWith(opts web.Options, handlers ...handler.Service) (*web.Service, error) {
	opts.Verifier = d.verifier()
	opts.PublicPaths = append(handler.PublicPaths(handlers...), opts.PublicPaths...)

	s := web.New(d.cfg, opts)

	for _, h := range handlers {
		if err := h.Init(s.API, s.Doc); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func buildSettings(ctx context.Context, d *Daemon) (*web.Service, error) {
	var store settingsvc.Store

	switch d.cfg.Settings.Backend {
	case config.SettingsBackendDynamoDB:
		client, err := dynamo.NewClient(ctx, d.cfg.DynamoDB)
		if err != nil {
			return nil, err
		}

		table := d.cfg.DynamoDB.Table
		if table == "" {
			table = DefaultSettingsTable
		}

		if err := dynamo.EnsureTable(ctx, client, table, "key"); err != nil {
			return nil, err
		}

		repo, err := dynamo.New[models.Setting, string](client, table, "key")
		if err != nil {
			return nil, err
		}

		store = settingsvc.DynamoStore{Repository: repo}
	default:
		repo, err := repository.NewGorm[models.Setting, string](d.db, "key")
		if err != nil {
			return nil, err
		}

		store = settingsvc.GormStore{Gorm: repo}
	}

	return d.mount("settings", settingsvc.ServiceName, auth.ModuleSettings, settings.New(settingsvc.New(store)))
}

func buildUsers(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := usersvc.New(d.db, d.roles, d.cfg.Auth.DefaultRole)
	if err != nil {
		return nil, err
	}

	return d.mount("users", "", auth.ModuleUsers, users.New(svc))
}

func buildCRM(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := crmsvc.New(d.db)
	if err != nil {
		return nil, err
	}

	s, err := d.mount("crm", crmsvc.ServiceName, auth.ModuleCRM, crm.New(svc))
	if err != nil {
		return nil, err
	}

	s.Search(svc.SearchHits)

	return s, nil
}

func buildDemo(ctx context.Context, d *Daemon) (*web.Service, error) {
	svc, err := demosvc.New(ctx, demosvc.Seed())
	if err != nil {
		return nil, err
	}

	return d.mount("demo", demosvc.ServiceName, auth.ModuleDemo, demo.New(svc))
}

func buildInventory(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := inventorysvc.New(d.db)
	if err != nil {
		return nil, err
	}

	s, err := d.mount("inventory", inventorysvc.ServiceName, auth.ModuleInventory, inventory.New(svc))
	if err != nil {
		return nil, err
	}

	s.Search(svc.SearchHits)

	return s, nil
}

func buildSales(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := salessvc.New(d.db)
	if err != nil {
		return nil, err
	}

	return d.mount("sales", salessvc.ServiceName, auth.ModuleSales, sales.New(svc))
}

func buildRepair(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := repairsvc.New(d.db)
	if err != nil {
		return nil, err
	}

	return d.mount("service", repairsvc.ServiceName, auth.ModuleService, repair.New(svc))
}

func buildParts(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := partssvc.New(d.db)
	if err != nil {
		return nil, err
	}

	s, err := d.mount("parts", partssvc.ServiceName, auth.ModuleParts, parts.New(svc))
	if err != nil {
		return nil, err
	}

	s.Search(svc.Parts.SearchHits)

	return s, nil
}

func buildFinancial(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := financialsvc.New(d.db)
	if err != nil {
		return nil, err
	}

	return d.mount("financial", financialsvc.ServiceName, auth.ModuleFinancial, financial.New(svc))
}

func buildReporting(_ context.Context, d *Daemon) (*web.Service, error) {
	svc, err := reportingsvc.New(d.db, nil)
	if err != nil {
		return nil, err
	}

	exports, err := session.NewExportStorage(d.cfg, d.redis())
	if err != nil {
		return nil, err
	}

	d.closers = append(d.closers, exports.Close)
	svc.Exports = reportingsvc.NewExporter(svc.Reports, exports, d.cfg.Reporting.ExportFormat, d.cfg.Reporting.ExportRetention)

	if d.cfg.Reporting.SchedulerEnabled {
		var opts scheduler.Options
		if d.cfg.Reporting.UseRedisLock && d.rdb != nil {
			opts.Locker = scheduler.NewRedisLocker(d.rdb, scheduler.DefaultLockPrefix)
		}

		sched := scheduler.New(opts)

		for _, job := range scheduler.ReportingJobs(d.cfg.Reporting, svc) {
			if err := sched.Add(job); err != nil {
				return nil, err
			}
		}

		d.scheduler = sched
	}

	return d.mount("reporting", reportingsvc.ServiceName, auth.ModuleReporting, reporting.New(svc))
}

func buildLogin(ctx context.Context, d *Daemon) (*web.Service, error) {
	opts := loginsvc.Options{DefaultRole: d.cfg.Auth.DefaultRole}

	if d.cfg.Auth.LDAP.Enabled {
		p, err := auth.NewLDAPProvider(d.cfg.Auth.LDAP, d.db, d.roles, d.cfg.Auth.DefaultRole)
		if err != nil {
			return nil, err
		}

		opts.LDAP = p
	}

	if d.cfg.Auth.OIDC.Enabled {
		p, err := auth.NewOIDCProvider(ctx, d.cfg.Auth.OIDC, d.db, d.roles, d.cfg.Auth.DefaultRole)
		if err != nil {
			return nil, err
		}

		opts.OIDC = p
	}

	svc, err := loginsvc.New(d.db, d.roles, d.tokens, auth.NewMFA(d.cfg.Auth.MFA, d.store), opts)
	if err != nil {
		return nil, err
	}

	storage, err := session.NewStorage(d.cfg, d.redis())
	if err != nil {
		return nil, err
	}

	sessions := session.New(storage)
	d.closers = append(d.closers, sessions.Close)

	return d.mountWith(
		web.Options{Name: "login", Title: loginsvc.ServiceName, PublicPaths: login.PublicPaths},
		login.New(svc), logout.New(svc), oidc.New(svc, sessions),
	)
}

func buildGateway(_ context.Context, d *Daemon) (*web.Service, error) {
	if d.cfg.Auth.JWT.Key == "" {
		log.Warn().Msg("jwt key empty, the gateway rejects every guarded route")
	}

	g := gateway.New(d.cfg, gateway.Options{Verifier: d.tokens, Redis: d.redis()})

	return g.Service, nil
}
