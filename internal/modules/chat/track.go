package chat

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	types "github.com/yungbote/chekinn-backend/internal/domain"
	"github.com/yungbote/chekinn-backend/internal/pkg/logger"
)

const trackKeywordsEnv = "TRACK_KEYWORDS_YAML"

// HistoryWindow is how many past turns are scanned when the message itself
// names no track.
const HistoryWindow = 5

//go:embed track_keywords.yaml
var trackKeywordsFS embed.FS

// TrackRule maps keywords to a track. Rules are evaluated in order.
type TrackRule struct {
	Track    types.Track `yaml:"track"`
	Keywords []string    `yaml:"keywords"`
}

var fallbackTrackRules = []TrackRule{
	{Track: types.TrackCatMBA, Keywords: []string{"cat", "mba", "iim", "mock test", "percentile", "admission", "gmat", "entrance"}},
	{Track: types.TrackJobsCareer, Keywords: []string{"job", "career", "role", "interview", "salary", "promotion", "company", "manager", "switch"}},
	{Track: types.TrackRoastPlay, Keywords: []string{"roast", "roast me", "bored", "fun", "joke"}},
}

type yamlTrackTable struct {
	Version int         `yaml:"version"`
	Tracks  []TrackRule `yaml:"tracks"`
}

// HistoryEntry is a past turn with the track it was tagged with.
type HistoryEntry struct {
	Text  string
	Track types.Track
}

type TrackClassifier struct {
	rules []TrackRule
}

// NewTrackClassifier loads rules from TRACK_KEYWORDS_YAML when set, else the
// embedded table. Invalid YAML falls back to the compiled-in rules.
func NewTrackClassifier(log *logger.Logger) *TrackClassifier {
	rules, err := loadTrackRules()
	if err != nil {
		if log != nil {
			log.Warn("track classifier: keyword table load failed; using fallback", "error", err)
		}
		rules = fallbackTrackRules
	}
	return &TrackClassifier{rules: rules}
}

// NewTrackClassifierWithRules is used when rules come from elsewhere.
func NewTrackClassifierWithRules(rules []TrackRule) *TrackClassifier {
	return &TrackClassifier{rules: normalizeRules(rules)}
}

func (c *TrackClassifier) Rules() []TrackRule { return c.rules }

// Classify picks the first rule with a keyword contained in the lowercased
// message. Otherwise the most recent tagged turn among the last
// HistoryWindow entries (history is oldest first) decides. Otherwise none.
func (c *TrackClassifier) Classify(message string, history []HistoryEntry) types.Track {
	lower := strings.ToLower(message)
	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				return rule.Track
			}
		}
	}
	scanned := 0
	for i := len(history) - 1; i >= 0 && scanned < HistoryWindow; i-- {
		scanned++
		if history[i].Track != types.TrackNone {
			return history[i].Track
		}
	}
	return types.TrackNone
}

func loadTrackRules() ([]TrackRule, error) {
	data, err := readTrackTable()
	if err != nil {
		return nil, err
	}
	var table yamlTrackTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	rules := normalizeRules(table.Tracks)
	if len(rules) == 0 {
		return nil, errors.New("no track rules")
	}
	for _, r := range rules {
		if !r.Track.Valid() {
			return nil, fmt.Errorf("unknown track %q", r.Track)
		}
	}
	return rules, nil
}

func readTrackTable() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(trackKeywordsEnv)); path != "" {
		return os.ReadFile(path)
	}
	return trackKeywordsFS.ReadFile("track_keywords.yaml")
}

func normalizeRules(in []TrackRule) []TrackRule {
	out := make([]TrackRule, 0, len(in))
	for _, r := range in {
		kws := make([]string, 0, len(r.Keywords))
		for _, kw := range r.Keywords {
			if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" {
				kws = append(kws, kw)
			}
		}
		if r.Track == types.TrackNone || len(kws) == 0 {
			continue
		}
		out = append(out, TrackRule{Track: r.Track, Keywords: kws})
	}
	return out
}
