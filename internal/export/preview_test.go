package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subtrack/internal/entity"
)

func TestPreviewTable(t *testing.T) {
	subs := []entity.Subscription{
		exportSub("Netflix", "149", true, ""),
		exportSub("Spotify", "129", false, "family plan"),
	}

	got := PreviewTable(subs)

	for _, want := range []string{"NAME", "MONTHLY PRICE", "Netflix", "149", "Active", "Spotify", "Ended", "family plan"} {
		assert.Contains(t, got, want)
	}

	// header plus two data rows plus the frame
	require.GreaterOrEqual(t, len(strings.Split(got, "\n")), 5)
}
