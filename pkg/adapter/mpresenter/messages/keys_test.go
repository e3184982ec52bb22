package messages

import (
	"strings"
	"testing"
)

func TestMessagesAreDefined(t *testing.T) {
	keys := []string{
		HelpUsageShort,
		FlagBase,
		FlagPatch,
		FlagOut,
		FlagConfig,
		FlagAppend,
		FlagUpdate,
		FlagReport,
		FlagDryRun,
		FlagValidateOnly,
		FlagLogLevel,
		FlagVerbose,
		FlagTextEncoding,
		MessageBaseRequired,
		MessagePatchRequired,
	}

	seen := map[string]struct{}{}
	for _, key := range keys {
		if key == "" {
			t.Fatalf("key should not be empty")
		}
		if _, exists := seen[key]; exists {
			t.Fatalf("key should be unique: %s", key)
		}
		seen[key] = struct{}{}
	}
}

func TestLogFormatsHaveVerbs(t *testing.T) {
	formats := map[string]int{
		LogLoadStart:       2,
		LogValidateSuccess: 1,
		LogMergeSuccess:    1,
		LogDryRunSuccess:   1,
		LogReportSaved:     1,
		LogCategorySummary: 6,
		LogWarningSummary:  1,
		LogPruneSummary:    2,
	}
	for format, want := range formats {
		if got := strings.Count(format, "%"); got != want {
			t.Fatalf("verb count mismatch: %q got=%d want=%d", format, got, want)
		}
	}
}
