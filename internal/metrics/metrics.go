package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wicara_session_active",
		Help: "Whether a live session is currently connected (0 or 1)",
	})

	SessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_sessions_total",
		Help: "Total sessions connected",
	})

	SessionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_session_errors_total",
		Help: "Sessions terminated by a device, transport, or protocol failure",
	})

	ChunksCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_audio_chunks_captured_total",
		Help: "Microphone frames sent to the agent",
	})

	ChunksScheduled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_audio_chunks_scheduled_total",
		Help: "Agent audio chunks queued for playback",
	})

	TurnsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_turns_completed_total",
		Help: "Conversation turns committed to the transcript",
	})

	Interruptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_interruptions_total",
		Help: "Agent responses cut off by the caller",
	})

	ToolCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_tool_calls_total",
		Help: "Function calls dispatched to tool handlers",
	})

	RecordsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wicara_records_captured_total",
		Help: "Validated inquiry records stored",
	})
)
