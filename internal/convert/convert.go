package convert

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"

	"hw2go/internal/diagnostic"
	"hw2go/internal/dictionary"
	"hw2go/internal/link"
	"hw2go/internal/loader"
	"hw2go/internal/media"
	"hw2go/internal/source"
	"hw2go/internal/synth"
	"hw2go/internal/target"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Options carries the caller-side hooks of a run.
type Options struct {
	// Logger receives every log entry as it is added. Nil disables it.
	Logger *slog.Logger
	// Progress is called synchronously with short phase banners.
	Progress func(string)
}

// Result is the outcome of a conversion run.
type Result struct {
	Document loader.Document
	Source   *source.Store
	Targets  *target.Store
	Log      *diagnostic.Log
	Link     link.Stats
	Stats    synth.Stats
}

// Run converts the document at sourcePath. The returned Result carries the
// run log even when an error is returned after loading started.
func Run(cfg Config, sourcePath string, opts Options) (*Result, error) {
	res := &Result{
		Source:  source.NewStore(),
		Targets: target.NewStore(),
		Log:     diagnostic.NewLog(opts.Logger),
	}

	dict, err := loadDictionary(cfg.Dictionary)
	if err != nil {
		return res, err
	}

	notify(opts.Progress, "loading "+filepath.Base(sourcePath))

	res.Document, err = loader.LoadFile(sourcePath, dict, res.Source, res.Log)
	if err != nil {
		return res, fmt.Errorf("failed to load source document: %w", err)
	}

	source.CheckRequired(res.Source, res.Log)

	linker := link.New(res.Log)
	linker.Exclusions = cfg.ExcludedLinks
	linker.Progress = opts.Progress
	linker.Known = func(recordType string) bool {
		_, ok := dict.Lookup(recordType)
		return ok
	}

	notify(opts.Progress, "linking")

	res.Link = linker.Run(res.Source)

	files := media.New(media.RootFor(sourcePath), cfg.CheckFiles)

	s := synth.New(res.Source, res.Targets, res.Log, files, synth.Config{
		Geometry:        cfg.Geometry,
		SilentLoop:      cfg.SilentLoopSample,
		NoiseManualName: cfg.NoiseManualName,
		Progress:        opts.Progress,
	})

	res.Stats, err = s.Run()
	if err != nil {
		return res, fmt.Errorf("failed to synthesize %s: %w", sourcePath, err)
	}

	return res, nil
}

// WriteResult writes the target document to outPath and returns the hex
// blake3 digest of the written bytes. The silent loop sample is written
// next to it when the run referenced it and cfg asks for it.
func WriteResult(res *Result, outPath string, cfg Config) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outPath), dirPerm); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var buf bytes.Buffer

	h := blake3.New()

	if err := target.Write(io.MultiWriter(&buf, h), res.Targets, target.WriteOptions{Encoding: cfg.Encoding}); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", outPath, err)
	}

	if err := os.WriteFile(outPath, buf.Bytes(), filePerm); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	if cfg.WriteSilentLoop && res.Stats.SilentLoop {
		wav := filepath.Join(filepath.Dir(outPath), filepath.FromSlash(cfg.SilentLoopSample))

		if err := os.MkdirAll(filepath.Dir(wav), dirPerm); err != nil {
			return "", fmt.Errorf("failed to create silent loop directory: %w", err)
		}

		if err := os.WriteFile(wav, SilentLoop(), filePerm); err != nil {
			return "", fmt.Errorf("failed to write silent loop %s: %w", wav, err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Digest returns the hex blake3 digest of the document rendered with cfg's
// encoding, without writing it anywhere.
func Digest(res *Result, cfg Config) (string, error) {
	h := blake3.New()

	if err := target.Write(h, res.Targets, target.WriteOptions{Encoding: cfg.Encoding}); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

func loadDictionary(path string) (*dictionary.Dictionary, error) {
	if path == "" {
		return dictionary.Default()
	}

	dict, err := dictionary.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}

	return dict, nil
}

func notify(progress func(string), msg string) {
	if progress != nil {
		progress(msg)
	}
}
