package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/neuromotionlabs/kinemetry/pkg/analysis"
	"github.com/neuromotionlabs/kinemetry/pkg/baseline"
	"github.com/neuromotionlabs/kinemetry/pkg/pipeline"
	"github.com/neuromotionlabs/kinemetry/pkg/risk"
)

// writeSessionFile writes a syntactically valid session with the given
// number of identical frames and returns its path.
func writeSessionFile(t *testing.T, id, patient string, frames int) string {
	t.Helper()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`{"id":%q,"patient_id":%q,"video_duration":2.0,"frame_count":%d,"pose_frames":[`,
		id, patient, frames))
	for f := 0; f < frames; f++ {
		if f > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(fmt.Sprintf(`{"frame_number":%d,"timestamp":%g,"confidence":0.95,"keypoints":[`,
			f, float64(f)/30.0))
		for k := 0; k < 33; k++ {
			if k > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(`[0.5,0.5,0.0]`)
		}
		sb.WriteString(`]}`)
	}
	sb.WriteString(`]}`)

	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadSession_Valid(t *testing.T) {
	path := writeSessionFile(t, "sess-1", "pt-1001", 2)

	session, err := loadSession(path)
	if err != nil {
		t.Fatalf("loadSession failed: %v", err)
	}

	if session.ID != "sess-1" {
		t.Errorf("ID = %q, want sess-1", session.ID)
	}
	if session.PatientID != "pt-1001" {
		t.Errorf("PatientID = %q, want pt-1001", session.PatientID)
	}
	if len(session.Frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(session.Frames))
	}
	if got := len(session.Frames[0].Keypoints); got != 33 {
		t.Errorf("frame 0 has %d keypoints, want 33", got)
	}
	if err := session.Validate(); err != nil {
		t.Errorf("parsed session should validate, got: %v", err)
	}
}

func TestLoadSession_MissingFile(t *testing.T) {
	_, err := loadSession(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadSession_MalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := loadSession(path)
	if err == nil {
		t.Error("expected error for malformed JSON")
	}
	if err != nil && !strings.Contains(err.Error(), "parse") {
		t.Errorf("error should mention parsing, got: %v", err)
	}
}

func TestAnalyzeCmd_Help(t *testing.T) {
	if analyzeCmd.Short == "" {
		t.Error("analyze command should have Short description")
	}
	if !strings.Contains(analyzeCmd.Long, "baseline") {
		t.Error("analyze command Long description should explain baseline behavior")
	}
}

func testResult(assessment *risk.Assessment, state baseline.State, samples int) *pipeline.Result {
	return &pipeline.Result{
		SessionID:  "sess-1",
		PatientID:  "pt-1001",
		Features:   analysis.FeatureVector{GaitSymmetry: 0.9},
		Assessment: assessment,
		Baseline: baseline.Progress{
			State:       state,
			SampleCount: samples,
			Required:    7,
		},
		Recommendations: []string{"Continue regular monitoring"},
		Summary:         "Video of 2.0s processed with 60 frames.",
		AnalyzedAt:      time.Now().UTC(),
	}
}

func TestPrintResult_TextScored(t *testing.T) {
	oldFormat := outputFormat
	outputFormat = "text"
	defer func() { outputFormat = oldFormat }()

	result := testResult(&risk.Assessment{
		Level:            risk.LevelMedium,
		DeviationScore:   2.1,
		Confidence:       0.7,
		FeatureZScores:   map[string]float64{"gait_symmetry": 2.1},
		ExcludedFeatures: []string{"stride_length"},
	}, baseline.StateEstablished, 7)

	var out bytes.Buffer
	if err := printResult(&out, result); err != nil {
		t.Fatalf("printResult failed: %v", err)
	}

	text := out.String()
	for _, want := range []string{"Risk:", "MEDIUM", "deviation 2.10", "Excluded:", "established (7 of 7", "Continue regular monitoring"} {
		if !strings.Contains(text, want) {
			t.Errorf("text output missing %q, got:\n%s", want, text)
		}
	}
}

func TestPrintResult_TextCollecting(t *testing.T) {
	oldFormat := outputFormat
	outputFormat = "text"
	defer func() { outputFormat = oldFormat }()

	result := testResult(nil, baseline.StateCollecting, 1)

	var out bytes.Buffer
	if err := printResult(&out, result); err != nil {
		t.Fatalf("printResult failed: %v", err)
	}

	text := out.String()
	if strings.Contains(text, "Risk:") {
		t.Errorf("unscored result should not print a risk line, got:\n%s", text)
	}
	if !strings.Contains(text, "collecting (1 of 7") {
		t.Errorf("text output should report collection progress, got:\n%s", text)
	}
}

func TestPrintResult_JSON(t *testing.T) {
	oldFormat := outputFormat
	outputFormat = "json"
	defer func() { outputFormat = oldFormat }()

	result := testResult(nil, baseline.StateCollecting, 1)

	var out bytes.Buffer
	if err := printResult(&out, result); err != nil {
		t.Fatalf("printResult failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(out.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["session_id"] != "sess-1" {
		t.Errorf("session_id = %v, want sess-1", decoded["session_id"])
	}
	if _, present := decoded["risk_assessment"]; present {
		t.Error("nil assessment should be omitted from JSON output")
	}
}
