package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_ParseDBConnString_inmem(t *testing.T) {
	db, err := ParseDBConnString("inmem")
	assert.NoError(t, err)
	assert.Equal(t, DatabaseInMemory, db.Type)
}

func Test_ParseDBConnString_sqliteRequiresPath(t *testing.T) {
	_, err := ParseDBConnString("sqlite")
	assert.Error(t, err)

	db, err := ParseDBConnString("sqlite:/var/lib/touistd")
	assert.NoError(t, err)
	assert.Equal(t, DatabaseSQLite, db.Type)
	assert.Equal(t, "/var/lib/touistd", db.DataDir)
}

func Test_ParseDBConnString_unknownEngine(t *testing.T) {
	_, err := ParseDBConnString("postgres:whatever")
	assert.Error(t, err)
}

func Test_Config_FillDefaults(t *testing.T) {
	cfg := Config{}.FillDefaults()
	assert.Equal(t, DatabaseInMemory, cfg.DB.Type)
	assert.NotEmpty(t, cfg.TokenSecret)
	assert.Equal(t, 1000, cfg.UnauthDelayMillis)
	assert.NoError(t, cfg.Validate())
}

func Test_Config_Validate_rejectsShortSecret(t *testing.T) {
	cfg := Config{TokenSecret: []byte("too-short"), DB: Database{Type: DatabaseInMemory}}
	assert.Error(t, cfg.Validate())
}

func Test_Config_UnauthDelay_negativeDisables(t *testing.T) {
	cfg := Config{UnauthDelayMillis: -1}
	assert.Zero(t, cfg.UnauthDelay())
}
