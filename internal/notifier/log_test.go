package notifier

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/amishk599/internwatch/internal/model"
)

func TestLogNotifier_Notify_logsPosting(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewTextHandler(&buf, nil)))

	p := model.Posting{Source: "greenhouse", Company: "Stripe", Title: "Backend Engineering Intern", ExternalID: "55", URL: "https://x/55"}
	if err := n.Notify(context.Background(), p); err != nil {
		t.Fatalf("Notify() = %v, want nil", err)
	}

	out := buf.String()
	for _, want := range []string{"new internship", "company=Stripe", "identity=greenhouse_55", "url=https://x/55"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}
