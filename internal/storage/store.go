package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
)

var sampleHeader = []string{"frame", "time", "joints", "broken", "max_strain", "kinetic"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Material    string             `json:"material"`
	Timestamp   time.Time          `json:"timestamp"`
	UseDuration float64            `json:"use_duration"`
	FrameDt     float64            `json:"frame_dt"`
	Frames      int                `json:"frames"`
	Size        int                `json:"size"`
	Spacing     float64            `json:"spacing"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Sample is one row of a run's time series.
type Sample struct {
	Frame     int
	Time      float64
	Joints    int
	Broken    int
	MaxStrain float64
	Kinetic   float64
}

// Save writes a run under a fresh <material>_<unix> directory and returns
// its id. A suffix is added if that directory already exists.
func (s *Store) Save(meta RunMetadata, samples []Sample) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	runID, runDir, err := s.newRunDir(meta.Material, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = runID

	if err := writeMetadata(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, samplesFile), samples); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(material string, ts time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", material, ts.Unix())
	runID := base
	for n := 2; ; n++ {
		runDir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(runDir, 0755)
		if err == nil {
			return runID, runDir, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
		runID = fmt.Sprintf("%s_%d", base, n)
	}
}

func writeMetadata(path string, meta RunMetadata) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func writeSamples(path string, samples []Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sampleHeader); err != nil {
		return err
	}
	for _, sm := range samples {
		row := []string{
			strconv.Itoa(sm.Frame),
			strconv.FormatFloat(sm.Time, 'f', 6, 64),
			strconv.Itoa(sm.Joints),
			strconv.Itoa(sm.Broken),
			strconv.FormatFloat(sm.MaxStrain, 'g', -1, 64),
			strconv.FormatFloat(sm.Kinetic, 'g', -1, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSamples reads a run's time series. Rows that do not parse are skipped.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Sample{}, nil
	}

	samples := make([]Sample, 0, len(records)-1)
	for _, rec := range records[1:] {
		sm, ok := parseSample(rec)
		if !ok {
			continue
		}
		samples = append(samples, sm)
	}
	return samples, nil
}

func parseSample(rec []string) (Sample, bool) {
	if len(rec) < len(sampleHeader) {
		return Sample{}, false
	}
	var (
		sm   Sample
		errs [6]error
	)
	sm.Frame, errs[0] = strconv.Atoi(rec[0])
	sm.Time, errs[1] = strconv.ParseFloat(rec[1], 64)
	sm.Joints, errs[2] = strconv.Atoi(rec[2])
	sm.Broken, errs[3] = strconv.Atoi(rec[3])
	sm.MaxStrain, errs[4] = strconv.ParseFloat(rec[4], 64)
	sm.Kinetic, errs[5] = strconv.ParseFloat(rec[5], 64)
	for _, err := range errs {
		if err != nil {
			return Sample{}, false
		}
	}
	return sm, true
}
