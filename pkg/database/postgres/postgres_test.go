package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "billing", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=billing sslmode=disable", cfg.DSN())
}

func TestConfigURLEscapesCredentials(t *testing.T) {
	cfg := &Config{Host: "db", Port: "5432", User: "pos", Password: "p@ss/word", DBName: "billing", SSLMode: "require"}
	assert.Equal(t, "postgres://pos:p%40ss%2Fword@db:5432/billing?sslmode=require", cfg.URL())
}
