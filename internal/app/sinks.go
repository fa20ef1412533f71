package app

import (
	"fmt"
	"io"
	"log"

	"skillhit/logging"
	loggingSinks "skillhit/logging/sinks"
)

type builtSinks struct {
	named []logging.NamedSink
	// feed is the websocket sink, served over HTTP when enabled.
	feed *loggingSinks.WebSocket
}

func buildSinks(cfg logging.Config, stdout io.Writer, fallback *log.Logger) (builtSinks, error) {
	var built builtSinks
	for _, name := range cfg.EnabledSinks {
		var sink logging.Sink
		switch name {
		case logging.SinkConsole:
			sink = loggingSinks.NewConsole(stdout, cfg.Console)
		case logging.SinkJSON:
			jsonSink, err := loggingSinks.OpenJSONFile(cfg.JSON.FilePath, cfg.JSON.FlushInterval)
			if err != nil {
				return builtSinks{}, fmt.Errorf("json sink: %w", err)
			}
			sink = jsonSink
		case logging.SinkMemory:
			sink = loggingSinks.NewMemorySink()
		case logging.SinkWebSocket:
			built.feed = loggingSinks.NewWebSocket(cfg.WebSocket, fallback)
			sink = built.feed
		default:
			return builtSinks{}, fmt.Errorf("unknown sink %q", name)
		}
		built.named = append(built.named, logging.NamedSink{Name: name, Sink: sink})
	}
	return built, nil
}
