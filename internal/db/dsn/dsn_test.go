package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apota/mydms-sub010/internal/config"
)

func TestCreate(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.DB
		want string
	}{
		{
			name: "mysql",
			cfg: config.DB{
				GormEngine: config.DBEngineMySQL, User: "dms", Password: "secret",
				Host: "db", Port: 3306, Name: "dms", Extras: "parseTime=true",
			},
			want: "dms:secret@tcp(db:3306)/dms?parseTime=true",
		},
		{
			name: "postgres",
			cfg: config.DB{
				GormEngine: config.DBEnginePostgres, User: "dms", Password: "p@ss",
				Host: "db", Port: 5432, Name: "dms", Extras: "sslmode=disable",
			},
			want: "postgres://dms:p%40ss@db:5432/dms?sslmode=disable",
		},
		{
			name: "sqlite file",
			cfg:  config.DB{GormEngine: config.DBEngineSQLite, Path: "./dms.db"},
			want: "./dms.db?" + SQLitePragmas,
		},
		{
			name: "sqlite memory",
			cfg:  config.DB{},
			want: ":memory:?" + SQLitePragmas,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Create(&tt.cfg))
		})
	}
}
