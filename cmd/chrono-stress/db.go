package main

import (
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DB struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// Run is one recorded stress run. Lag is the time between a job's deadline
// and the moment it actually started, in nanoseconds.
type Run struct {
	gorm.Model
	Jobs       int
	Elapsed    time.Duration
	JobsPerSec float64
	P50Lag     time.Duration
	P99Lag     time.Duration
	MaxLag     time.Duration
}

func LoadDatabase(path string) (*DB, bool) {
	log := zap.L().Named("db").Sugar()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Error(err)
		return nil, false
	}

	err = db.AutoMigrate(&Run{})
	if err != nil {
		log.Error(err)
		return nil, false
	}

	return &DB{
		db:  db,
		log: log,
	}, true
}

func (db *DB) SaveRun(run *Run) bool {
	err := db.db.Create(run).Error
	if err != nil {
		db.log.Error(err)
		return false
	}
	return true
}
