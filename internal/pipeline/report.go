package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"wcc/internal/diag"
	"wcc/internal/vfs"
)

// ChangeStatus classifies what happened to one output file.
type ChangeStatus string

const (
	// StatusCreated for freshly written files
	StatusCreated ChangeStatus = "created"
	// StatusUpdated for modified files
	StatusUpdated ChangeStatus = "updated"
	// StatusUnchanged for files left as they were
	StatusUnchanged ChangeStatus = "unchanged"
)

// ChangeReason explains a change record.
type ChangeReason string

const (
	// ReasonNewFile when no prior file existed
	ReasonNewFile ChangeReason = "new-file"
	// ReasonSectionUpdated when generated sections were patched in place
	ReasonSectionUpdated ChangeReason = "section-updated"
	// ReasonContentUpdated when the whole file was replaced
	ReasonContentUpdated ChangeReason = "content-updated"
	// ReasonUnchanged when nothing needed to change
	ReasonUnchanged ChangeReason = "unchanged"
)

// ChangeRecord is the per-file change record consumed by external
// reporting.
type ChangeRecord struct {
	FilePath string       `json:"filePath" yaml:"filePath"`
	Status   ChangeStatus `json:"status" yaml:"status"`
	Reason   ChangeReason `json:"reason" yaml:"reason"`
}

// ComponentReport aggregates one component's outcome.
type ComponentReport struct {
	SourcePath  string           `json:"sourcePath" yaml:"sourcePath"`
	ClassName   string           `json:"className,omitempty" yaml:"className,omitempty"`
	TagName     string           `json:"tagName,omitempty" yaml:"tagName,omitempty"`
	Changes     []ChangeRecord   `json:"changes,omitempty" yaml:"changes,omitempty"`
	Diagnostics diag.Diagnostics `json:"diagnostics" yaml:"diagnostics"`
}

// RunStatus is the aggregated outcome of a run.
type RunStatus string

const (
	// RunSuccess with no diagnostics
	RunSuccess RunStatus = "success"
	// RunWarning with warnings only
	RunWarning RunStatus = "warning"
	// RunError with at least one error
	RunError RunStatus = "error"
)

// Report is the run-level result.
type Report struct {
	RunID       string            `json:"runId" yaml:"runId"`
	Root        string            `json:"root" yaml:"root"`
	DryRun      bool              `json:"dryRun" yaml:"dryRun"`
	Targets     []string          `json:"targets" yaml:"targets"`
	Status      RunStatus         `json:"status" yaml:"status"`
	Components  []ComponentReport `json:"components" yaml:"components"`
	Diagnostics diag.Diagnostics  `json:"diagnostics" yaml:"diagnostics"`
	Halted      bool              `json:"halted,omitempty" yaml:"halted,omitempty"`
}

// finalize computes the aggregated status from every diagnostic bucket.
func (r *Report) finalize() {
	status := RunSuccess
	bump := func(d diag.Diagnostics) {
		if d.HasErrors() {
			status = RunError
		} else if d.HasWarnings() && status == RunSuccess {
			status = RunWarning
		}
	}
	bump(r.Diagnostics)
	for _, c := range r.Components {
		bump(c.Diagnostics)
	}
	r.Status = status
}

// WriteTo serializes the report to path through the given filesystem. The
// extension picks the format: .yaml/.yml for YAML, anything else JSON; a
// trailing .zst compresses the payload with zstd.
func (r *Report) WriteTo(fsys vfs.FS, path string) error {
	compressed := strings.HasSuffix(path, ".zst")
	format := strings.TrimSuffix(path, ".zst")

	var (
		data []byte
		err  error
	)
	if strings.HasSuffix(format, ".yaml") || strings.HasSuffix(format, ".yml") {
		data, err = yaml.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if compressed {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return fmt.Errorf("init zstd: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		_ = enc.Close()
	}

	return fsys.WriteFile(path, data)
}
