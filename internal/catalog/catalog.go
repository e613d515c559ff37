// Package catalog holds the in-memory media catalog: records plus four
// secondary indexes, persisted as a single JSON snapshot (§3, §4.4).
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/franz/vdjfix/internal/textnorm"
	"github.com/franz/vdjfix/internal/util"
)

const docVersion = "1"

// Stats summarizes the catalog as of the last load or save.
type Stats struct {
	TotalFiles int            `json:"totalFiles"`
	ByType     map[string]int `json:"byType"`
}

// document is the on-disk JSON shape (§3: MediaCatalog).
type document struct {
	Version    string         `json:"version"`
	LastUpdate time.Time      `json:"lastUpdate"`
	Encoding   string         `json:"encoding"`
	MusicFiles []*MediaRecord `json:"musicFiles"`
	Stats      Stats          `json:"stats"`
}

// Catalog is the owned catalog object threaded through the coordinator
// (§9: ported away from the source's process-wide singleton).
type Catalog struct {
	path string

	dataMu sync.RWMutex // guards musicFiles + all four indexes
	fileMu sync.Mutex   // serializes JSON I/O

	musicFiles []*MediaRecord
	lastUpdate time.Time
	stats      Stats

	byPath           map[string]*MediaRecord
	byStem           map[string][]*MediaRecord
	byNormalizedName map[string][]*MediaRecord
	byNormalizedDir  map[string][]*MediaRecord
}

// New constructs an empty, unsaved catalog bound to path.
func New(path string) *Catalog {
	c := &Catalog{path: path}
	c.rebuildIndexesLocked()
	return c
}

// Load reads the JSON document from disk, creating an empty one if absent,
// and rebuilds all four indexes before returning (§4.4 load()).
func Load(path string) (*Catalog, error) {
	c := &Catalog{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		c.rebuildIndexesLocked()
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrCatalogCorrupt, err)
	}

	c.musicFiles = doc.MusicFiles
	c.lastUpdate = doc.LastUpdate
	c.stats = doc.Stats
	c.rebuildIndexesLocked()
	return c, nil
}

// Save serializes the in-memory musicFiles/stats to disk atomically
// (temp file + rename), refreshes lastUpdate, then rebuilds indexes
// (§4.4 save()).
func (c *Catalog) Save() error {
	c.fileMu.Lock()
	defer c.fileMu.Unlock()

	c.dataMu.Lock()
	c.lastUpdate = time.Now().UTC()
	doc := document{
		Version:    docVersion,
		LastUpdate: c.lastUpdate,
		Encoding:   "utf-8",
		MusicFiles: c.musicFiles,
		Stats:      computeStats(c.musicFiles),
	}
	c.stats = doc.Stats
	c.dataMu.Unlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal catalog: %w", err)
	}

	if err := writeFileAtomic(c.path, data); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}

	c.dataMu.Lock()
	c.rebuildIndexesLocked()
	c.dataMu.Unlock()
	return nil
}

// ReplaceAll atomically swaps musicFiles with a fresh index rebuild
// (§4.4 replaceAll(), §3 invariant: all four indexes reflect the new set
// or none do).
func (c *Catalog) ReplaceAll(records []*MediaRecord) {
	sorted := append([]*MediaRecord{}, records...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	c.dataMu.Lock()
	defer c.dataMu.Unlock()
	c.musicFiles = sorted
	c.rebuildIndexesLocked()
}

// GetByPath is an O(1) lookup into byPath.
func (c *Catalog) GetByPath(p string) (*MediaRecord, bool) {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	r, ok := c.byPath[p]
	return r, ok
}

// GetByStem is an O(1) lookup into byStem.
func (c *Catalog) GetByStem(stem string) []*MediaRecord {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return append([]*MediaRecord{}, c.byStem[stem]...)
}

// GetByNormalizedName is an O(1) lookup into byNormalizedName.
func (c *Catalog) GetByNormalizedName(n string) []*MediaRecord {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return append([]*MediaRecord{}, c.byNormalizedName[n]...)
}

// GetByNormalizedDir is an O(1) lookup into byNormalizedDir.
func (c *Catalog) GetByNormalizedDir(d string) []*MediaRecord {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return append([]*MediaRecord{}, c.byNormalizedDir[d]...)
}

// All returns a snapshot of every record currently in the catalog.
func (c *Catalog) All() []*MediaRecord {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return append([]*MediaRecord{}, c.musicFiles...)
}

// Stats returns the stats recorded at the last load/save.
func (c *Catalog) Stats() Stats {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return c.stats
}

// LastUpdate returns the timestamp of the last load/save.
func (c *Catalog) LastUpdate() time.Time {
	c.dataMu.RLock()
	defer c.dataMu.RUnlock()
	return c.lastUpdate
}

// NormalizedDir applies C1's "path" profile to a parent directory, the
// same function used to populate byNormalizedDir.
func NormalizedDir(path string) string {
	return textnorm.Normalize(filepath.Dir(path), textnorm.Path)
}

// rebuildIndexesLocked rebuilds all four secondary indexes from
// musicFiles. Callers must hold dataMu for writing.
func (c *Catalog) rebuildIndexesLocked() {
	byPath := make(map[string]*MediaRecord, len(c.musicFiles))
	byStem := make(map[string][]*MediaRecord)
	byNormalizedName := make(map[string][]*MediaRecord)
	byNormalizedDir := make(map[string][]*MediaRecord)

	for _, r := range c.musicFiles {
		byPath[r.Path] = r
		byStem[r.Stem] = append(byStem[r.Stem], r)
		byNormalizedName[r.NormalizedName] = append(byNormalizedName[r.NormalizedName], r)
		dir := NormalizedDir(r.Path)
		byNormalizedDir[dir] = append(byNormalizedDir[dir], r)
	}

	c.byPath = byPath
	c.byStem = byStem
	c.byNormalizedName = byNormalizedName
	c.byNormalizedDir = byNormalizedDir
}

func computeStats(records []*MediaRecord) Stats {
	byType := make(map[string]int)
	for _, r := range records {
		byType[string(r.MediaType)]++
	}
	return Stats{TotalFiles: len(records), ByType: byType}
}

// writeFileAtomic writes data to a temp file in the same directory as path
// then renames it into place, so readers never see a partially-written
// catalog. The rename is retried with backoff since a concurrent reader or
// a transient EIO can make it fail on the first attempt even though the
// temp file itself wrote cleanly.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".catalog-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return util.Retry(util.DefaultRetryConfig(), func() error {
		return os.Rename(tmpPath, path)
	}, fmt.Sprintf("rename catalog into place: %s", path))
}
