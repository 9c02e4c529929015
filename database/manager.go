/*
 * Copyright 2025 kestrel-data.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type connectionManager struct {
	config          *ConnectionConfig
	db              *bun.DB
	sqlDB           *sql.DB
	logger          Logger
	mu              sync.RWMutex
	connected       bool
	lastError       error
	lastHealthCheck time.Time
	healthStatus    *HealthStatus
	reconnectTries  int
	stopHealthCheck chan struct{}
	healthCheckOnce sync.Once
}

// NewDatabaseManager returns a Manager backed by Bun. If config is nil,
// a sensible default configuration is used.
func NewDatabaseManager(config *ConnectionConfig) Manager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &connectionManager{
		config:          config,
		healthStatus:    &HealthStatus{},
		stopHealthCheck: make(chan struct{}),
	}
}

func (cm *connectionManager) Connect(ctx context.Context) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if cm.connected && cm.db != nil {
		return nil
	}

	var err error
	cm.sqlDB, cm.db, err = cm.createConnection()
	if err != nil {
		cm.lastError = err
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	cm.configureConnectionPool()

	ctxTimeout, cancel := context.WithTimeout(ctx, cm.config.ConnectTimeout)
	defer cancel()

	if err := cm.db.PingContext(ctxTimeout); err != nil {
		cm.lastError = err
		return fmt.Errorf("database connection test failed: %w", err)
	}

	cm.connected = true
	cm.lastError = nil
	cm.reconnectTries = 0

	if cm.config.HealthCheckInterval > 0 {
		cm.startHealthCheck()
	}

	if cm.logger != nil {
		cm.logger.Info("Database connected successfully:", "type", cm.config.Type, "host", cm.config.Host)
	}
	return nil
}

func (cm *connectionManager) createConnection() (*sql.DB, *bun.DB, error) {
	var sqlDB *sql.DB
	var db *bun.DB
	var err error

	if cm.config.ConnectTimeout.Seconds() <= 0 {
		cm.config.ConnectTimeout = 30 * time.Second
	}

	switch cm.config.Type {
	case "mysql":
		sqlDB, db, err = cm.createMySQLConnection()
	case "postgres", "postgresql":
		sqlDB, db, err = cm.createPostgreSQLConnection()
	case "sqlite", "sqlite3":
		sqlDB, db, err = cm.createSQLiteConnection()
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", cm.config.Type)
	}

	if err != nil {
		return nil, nil, err
	}

	if cm.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	}

	if cm.config.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{
			slowTime: cm.config.SlowQueryTime,
			logger:   cm.logger,
		})
	}

	return sqlDB, db, nil
}

func (cm *connectionManager) createMySQLConnection() (*sql.DB, *bun.DB, error) {
	charset := cm.config.Charset
	if charset == "" {
		charset = "utf8mb4"
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
		cm.config.Username,
		cm.config.Password,
		cm.config.Host,
		cm.config.Port,
		cm.config.DBName,
		charset,
		cm.config.ConnectTimeout,
		cm.config.ReadTimeout,
		cm.config.WriteTimeout,
	)

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqlDB, mysqldialect.New())
	return sqlDB, db, nil
}

func (cm *connectionManager) createPostgreSQLConnection() (*sql.DB, *bun.DB, error) {
	sslMode := cm.config.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
		cm.config.Username,
		cm.config.Password,
		cm.config.Host,
		cm.config.Port,
		cm.config.DBName,
		sslMode,
		int(cm.config.ConnectTimeout.Seconds()),
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqlDB, pgdialect.New())
	return sqlDB, db, nil
}

func (cm *connectionManager) createSQLiteConnection() (*sql.DB, *bun.DB, error) {
	dsn := fmt.Sprintf("%s.db", cm.config.DBName)

	sqlDB, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, nil, err
	}

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	return sqlDB, db, nil
}

func (cm *connectionManager) configureConnectionPool() {
	if cm.sqlDB == nil {
		return
	}

	cm.sqlDB.SetMaxIdleConns(cm.config.MaxIdleConns)
	cm.sqlDB.SetMaxOpenConns(cm.config.MaxOpenConns)
	cm.sqlDB.SetConnMaxLifetime(cm.config.ConnMaxLifetime)
	cm.sqlDB.SetConnMaxIdleTime(cm.config.ConnMaxIdleTime)
}

func (cm *connectionManager) Disconnect() error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	select {
	case cm.stopHealthCheck <- struct{}{}:
	default:
	}

	if cm.db != nil {
		err := cm.db.Close()
		cm.db = nil
		cm.sqlDB = nil
		cm.connected = false

		if cm.logger != nil {
			if err != nil {
				cm.logger.Error("Failed to close database connection", "error", err)
			} else {
				cm.logger.Info("Database connection closed")
			}
		}

		return err
	}

	return nil
}

func (cm *connectionManager) Reconnect(ctx context.Context) error {
	if cm.logger != nil {
		cm.logger.Info("Attempting to reconnect to the database")
	}

	if err := cm.Disconnect(); err != nil {
		if cm.logger != nil {
			cm.logger.Warn("Error disconnecting existing connection", "error", err)
		}
	}

	return cm.Connect(ctx)
}

func (cm *connectionManager) Ping(ctx context.Context) error {
	cm.mu.RLock()
	db := cm.db
	cm.mu.RUnlock()

	if db == nil {
		return fmt.Errorf("database not connected")
	}

	return db.PingContext(ctx)
}

func (cm *connectionManager) GetDB() *bun.DB {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.db
}

func (cm *connectionManager) GetSQLDB() *sql.DB {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.sqlDB
}

func (cm *connectionManager) HealthCheck(ctx context.Context) *HealthStatus {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	start := time.Now()
	status := &HealthStatus{
		LastCheckTime: start,
		Connected:     cm.connected,
	}

	if cm.db == nil {
		status.Healthy = false
		status.LastError = "Database not initialized"
		return status
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	err := cm.db.PingContext(ctxTimeout)
	status.ResponseTime = time.Since(start)

	if err != nil {
		status.Healthy = false
		status.Connected = false
		status.LastError = err.Error()
		cm.lastError = err
	} else {
		status.Healthy = true
		status.Connected = true
		cm.lastError = nil
	}

	if cm.sqlDB != nil {
		stats := cm.sqlDB.Stats()
		status.ActiveConns = stats.InUse
		status.IdleConns = stats.Idle
		status.MaxOpenConns = stats.MaxOpenConnections
	}

	cm.healthStatus = status
	cm.lastHealthCheck = start

	return status
}

func (cm *connectionManager) startHealthCheck() {
	cm.healthCheckOnce.Do(func() {
		go func() {
			ticker := time.NewTicker(cm.config.HealthCheckInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
					status := cm.HealthCheck(ctx)
					cancel()
					if !status.Healthy && cm.config.EnableReconnect {
						cm.handleReconnect()
					}

				case <-cm.stopHealthCheck:
					return
				}
			}
		}()
	})
}

func (cm *connectionManager) handleReconnect() {
	if cm.reconnectTries >= cm.config.MaxReconnectTries {
		if cm.logger != nil {
			cm.logger.Error("Max reconnect attempts reached, stopping", "tries", cm.reconnectTries)
		}
		return
	}

	cm.reconnectTries++
	if cm.logger != nil {
		cm.logger.Info("Starting database reconnect", "try", cm.reconnectTries)
	}

	time.Sleep(cm.config.ReconnectInterval)

	ctx, cancel := context.WithTimeout(context.Background(), cm.config.ConnectTimeout)
	defer cancel()

	if err := cm.Reconnect(ctx); err != nil {
		if cm.logger != nil {
			cm.logger.Error("Reconnect failed", "error", err, "try", cm.reconnectTries)
		}
	} else {
		cm.reconnectTries = 0
		if cm.logger != nil {
			cm.logger.Info("Reconnect succeeded")
		}
	}
}

func (cm *connectionManager) GetStats() *DBStats {
	cm.mu.RLock()
	sqlDB := cm.sqlDB
	cm.mu.RUnlock()

	if sqlDB == nil {
		return &DBStats{}
	}

	stats := sqlDB.Stats()
	return &DBStats{
		MaxOpenConns:      stats.MaxOpenConnections,
		OpenConns:         stats.OpenConnections,
		InUse:             stats.InUse,
		Idle:              stats.Idle,
		WaitCount:         stats.WaitCount,
		WaitDuration:      stats.WaitDuration,
		MaxIdleClosed:     stats.MaxIdleClosed,
		MaxIdleTimeClosed: stats.MaxIdleTimeClosed,
		MaxLifetimeClosed: stats.MaxLifetimeClosed,
	}
}

func (cm *connectionManager) RunMigrations(ctx context.Context) error {
	db := cm.GetDB()
	if db == nil {
		return fmt.Errorf("database not initialized")
	}

	migrationManager := NewMigrationManager(db, cm.logger)

	return migrationManager.RunMigrations(ctx)
}

func (cm *connectionManager) SetLogger(logger Logger) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	cm.logger = logger
}

type slowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

func (h *slowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil {
		return
	}

	duration := time.Since(event.StartTime)
	if duration > h.slowTime && h.logger != nil {
		h.logger.Warn("\x1b[33;5mDatabase slow query detected:⚠️\x1b[0m",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"query", event.Query,
		)
	}
}
