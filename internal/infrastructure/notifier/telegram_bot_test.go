package notifier_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"calibration_analyzer/internal/domain/entity"
	"calibration_analyzer/internal/infrastructure/notifier"
)

const testToken = "123456:AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

//nolint:gochecknoglobals
var failAlert = entity.Alert{
	Equipment: entity.EquipmentIdentity{
		Manufacturer:      "Fluke",
		Model:             "87V",
		EquipmentType:     "Digital Multimeter",
		CertificateNumber: "C-1024",
	},
	Verdict:    entity.VerdictFail,
	Confidence: entity.Confidence{Level: entity.ConfidenceHigh, Score: 100},
	Summary:    "Voltage: applied tolerance 0.05 V exceeds specification ±0.03 V by 0.02 V",
	TraceID:    "trace-1",
}

func TestFormatAlert(t *testing.T) {
	rq := require.New(t)

	text := notifier.FormatAlert(failAlert)

	rq.True(strings.HasPrefix(text, "❌ <b>FAIL</b>"))
	rq.Contains(text, "Fluke 87V (Digital Multimeter)")
	rq.Contains(text, "<b>Certificate:</b> C-1024")
	rq.NotContains(text, "Serial")
	rq.Contains(text, "High (100/100)")
	rq.Contains(text, "<code>trace-1</code>")

	indeterminate := failAlert
	indeterminate.Verdict = entity.VerdictIndeterminate
	indeterminate.Summary = "<script>"

	text = notifier.FormatAlert(indeterminate)
	rq.True(strings.HasPrefix(text, "⚠️ <b>INDETERMINATE</b>"))
	rq.Contains(text, "&lt;script&gt;")
}

func TestTelegramBotRun(t *testing.T) {
	rq := require.New(t)

	requests := make(chan string, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		requests <- r.URL.Path + " " + string(body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true, "result": {"message_id": 1, "date": 0, "chat": {"id": 42, "type": "private"}}}`))
	}))
	defer server.Close()

	bot, err := notifier.NewTelegramBot(testToken, 42, telego.WithAPIServer(server.URL), telego.WithDiscardLogger())
	rq.NoError(err)

	alerts := make(chan entity.Alert, 1)
	alerts <- failAlert
	close(alerts)

	rq.NoError(bot.Run(context.Background(), alerts))

	got := <-requests
	rq.True(strings.HasPrefix(got, "/bot"+testToken+"/sendMessage "))
	rq.Contains(got, `"chat_id":42`)
	rq.Contains(got, `"parse_mode":"HTML"`)
}
