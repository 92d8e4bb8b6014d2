package sql

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// storeLogger feeds gorm's log stream into logrus. Record-not-found is
// never treated as a failure here because the store maps it to a domain
// error before anything is reported.
type storeLogger struct {
	log           *logrus.Logger
	slowThreshold time.Duration
}

//nolint:ireturn
func newStoreLogger(log *logrus.Logger, slowThreshold time.Duration) logger.Interface {
	return &storeLogger{log: log, slowThreshold: slowThreshold}
}

//nolint:ireturn
func (s *storeLogger) LogMode(logger.LogLevel) logger.Interface {
	return s
}

func (s *storeLogger) Info(ctx context.Context, format string, args ...interface{}) {
	s.entry(ctx).Infof(format, args...)
}

func (s *storeLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	s.entry(ctx).Warnf(format, args...)
}

func (s *storeLogger) Error(ctx context.Context, format string, args ...interface{}) {
	s.entry(ctx).Errorf(format, args...)
}

// Trace logs the statement, row count and elapsed time of one query,
// escalating to warn past the slow threshold and to error on failure.
func (s *storeLogger) Trace(
	ctx context.Context, begin time.Time, fc func() (string, int64), err error,
) {
	if s.log.GetLevel() <= logrus.FatalLevel {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) &&
		s.log.IsLevelEnabled(logrus.ErrorLevel):
		s.queryEntry(ctx, elapsed, fc).WithError(err).Error("query failed")
	case s.slowThreshold > 0 && elapsed >= s.slowThreshold &&
		s.log.IsLevelEnabled(logrus.WarnLevel):
		s.queryEntry(ctx, elapsed, fc).Warnf("slow query, above %v", s.slowThreshold)
	case s.log.IsLevelEnabled(logrus.DebugLevel):
		s.queryEntry(ctx, elapsed, fc).Debug("query trace")
	}
}

func (s *storeLogger) entry(ctx context.Context) *logrus.Entry {
	entry := s.log.WithContext(ctx)

	if origin := queryOrigin(); origin != "" {
		entry = entry.WithField("origin", origin)
	}

	return entry
}

func (s *storeLogger) queryEntry(
	ctx context.Context, elapsed time.Duration, fc func() (string, int64),
) *logrus.Entry {
	entry := s.entry(ctx)
	if fc == nil {
		return entry
	}

	query, rows := fc()
	fields := logrus.Fields{
		"elapsed_ms": float64(elapsed.Microseconds()) / 1e3,
		"query":      query,
	}

	if rows >= 0 {
		fields["rows"] = rows
	}

	return entry.WithFields(fields)
}

// queryOrigin names the first caller outside gorm, so trace lines point
// at store code rather than at this adaptor or gorm internals.
func queryOrigin() string {
	pcs := make([]uintptr, 16)
	depth := runtime.Callers(4, pcs)
	frames := runtime.CallersFrames(pcs[:depth])

	for frame, more := frames.Next(); more; frame, more = frames.Next() {
		if strings.HasPrefix(frame.Function, "gorm.io/gorm") {
			continue
		}

		return fmt.Sprintf("%s:%d", frame.File, frame.Line)
	}

	return ""
}
