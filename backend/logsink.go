package main

import (
	"bytes"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// roomWriter forwards each formatted log line to a game's websocket room.
type roomWriter struct {
	hub    *Hub
	gameID string
}

func (w roomWriter) Write(p []byte) (int, error) {
	line := string(bytes.TrimSpace(p))
	if line != "" {
		w.hub.Publish(w.gameID, msgBotLog, botLogPayload{GameID: w.gameID, Log: line})
	}
	return len(p), nil
}

func newConsoleLogger(out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05.000"}).
		With().Timestamp().Logger()
}

// sessionLogger writes to the server log and, as plain text, to the game's
// websocket room.
func sessionLogger(base io.Writer, hub *Hub, gameID string) zerolog.Logger {
	room := zerolog.ConsoleWriter{
		Out:        roomWriter{hub: hub, gameID: gameID},
		NoColor:    true,
		PartsOrder: []string{zerolog.MessageFieldName},
	}
	console := zerolog.ConsoleWriter{Out: base, TimeFormat: "15:04:05.000"}
	return zerolog.New(zerolog.MultiLevelWriter(console, room)).
		With().Timestamp().Str("game_id", gameID).Logger()
}
