package logging

import (
	"encoding/json"
	"log"
	"os"
	"time"

	golog "github.com/fclairamb/go-log"
)

type JSONLogger struct {
	verbose int
}

func NewJSONLogger(verbose int) *JSONLogger {
	return &JSONLogger{verbose}
}

func (l JSONLogger) print(level, event string, keyvals []interface{}) {
	fields := map[string]interface{}{
		"time":  time.Now().Format(time.RFC3339),
		"level": level,
		"event": event,
	}
	for i := 0; i+1 < len(keyvals); i += 2 {
		if key, ok := keyvals[i].(string); ok {
			fields[key] = keyvals[i+1]
		}
	}

	out, err := json.Marshal(fields)
	if err != nil {
		log.Println(level, event, keyvals)

		return
	}

	if _, err := os.Stderr.Write(append(out, '\n')); err != nil {
		log.Println(level, event, keyvals)
	}
}

func (l JSONLogger) Trace(event string, keyvals ...interface{}) {
	if l.verbose > 3 {
		l.print("TRACE", event, keyvals)
	}
}

func (l JSONLogger) Debug(event string, keyvals ...interface{}) {
	if l.verbose > 2 {
		l.print("DEBUG", event, keyvals)
	}
}

func (l JSONLogger) Info(event string, keyvals ...interface{}) {
	if l.verbose > 1 {
		l.print("INFO", event, keyvals)
	}
}

func (l JSONLogger) Warn(event string, keyvals ...interface{}) {
	if l.verbose > 0 {
		l.print("WARN", event, keyvals)
	}
}

func (l JSONLogger) Error(event string, keyvals ...interface{}) {
	l.print("ERROR", event, keyvals)
}

func (l JSONLogger) With(keyvals ...interface{}) golog.Logger {
	return l
}
