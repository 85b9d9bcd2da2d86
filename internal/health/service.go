package health

import (
	"context"
	"runtime"
	"time"

	"github.com/redis/go-redis/v9"
)

// DBPinger is optional for health check. If nil, database is reported as disconnected.
type DBPinger interface {
	Ping() error
}

// Result is the health payload.
type Result struct {
	Status       string               `json:"status"`
	UptimeSec    int64                `json:"uptimeSeconds"`
	GoVersion    string               `json:"goVersion"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

// DepStatus reports one dependency's connectivity.
type DepStatus struct {
	Status string `json:"status"`
	PingMs *int64 `json:"pingMs"`
}

var started = time.Now()

// Collect pings the database and Redis. Redis is optional: a nil client is
// reported as disconnected without degrading overall status.
func Collect(ctx context.Context, rdb *redis.Client, db DBPinger) Result {
	result := Result{
		UptimeSec:    int64(time.Since(started).Seconds()),
		GoVersion:    runtime.Version(),
		Dependencies: make(map[string]DepStatus),
	}

	dbStatus := DepStatus{Status: "disconnected"}
	if db != nil {
		start := time.Now()
		if err := db.Ping(); err == nil {
			ms := time.Since(start).Milliseconds()
			dbStatus = DepStatus{Status: "connected", PingMs: &ms}
		} else {
			dbStatus.Status = "error"
		}
	}
	result.Dependencies["database"] = dbStatus

	redisStatus := DepStatus{Status: "disconnected"}
	if rdb != nil {
		start := time.Now()
		if err := rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisStatus = DepStatus{Status: "connected", PingMs: &ms}
		} else {
			redisStatus.Status = "error"
		}
	}
	result.Dependencies["redis"] = redisStatus

	result.Status = "ok"
	if dbStatus.Status != "connected" {
		result.Status = "issue"
	}
	return result
}
