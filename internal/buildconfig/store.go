package buildconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

const (
	// StoreFileName is the per-workspace settings file holding the
	// configuration list and the active selection.
	StoreFileName = ".apdev.yaml"

	configurationsKey = "configurations"
	activeKey         = "activeConfiguration"
)

func debugLog(format string, args ...interface{}) {
	if os.Getenv("APDEV_DEBUG") == "1" {
		fmt.Printf("[DEBUG:CONFIG] "+format+"\n", args...)
	}
}

// Store persists the build-configuration list for one workspace.
//
// All mutations rewrite the full list through viper, so every reader sees a
// consistent snapshot. Writes from a single process are serialized with a
// mutex; a second apdev process editing the same file is last-write-wins.
type Store struct {
	mu        sync.Mutex
	v         *viper.Viper
	path      string
	listeners []func()
}

// NewStore opens (or prepares to create) the settings file in the workspace.
func NewStore(workspace string) (*Store, error) {
	path := filepath.Join(workspace, StoreFileName)
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			// File exists but could not be parsed. Treat as empty rather
			// than failing every command that touches the store.
			debugLog("unparsable settings file %s: %v", path, err)
		}
	}
	return &Store{v: v, path: path}, nil
}

// Path returns the settings file location.
func (s *Store) Path() string {
	return s.path
}

// Subscribe registers a callback invoked after every successful write.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// List returns the persisted configurations. Malformed persisted state is
// logged and reported as empty, never as an error.
func (s *Store) List() []BuildConfiguration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Get looks up a configuration by name.
func (s *Store) Get(name string) (BuildConfiguration, bool) {
	for _, cfg := range s.List() {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return BuildConfiguration{}, false
}

// GetOrCreate validates the record and writes it to the settings file,
// replacing any record with the same name. Hardware configurations also get
// a persisted "<name>-upload" companion record so the upload pipeline has a
// stable identity of its own. Returns the stored record.
func (s *Store) GetOrCreate(cfg BuildConfiguration) (BuildConfiguration, error) {
	if err := cfg.Validate(); err != nil {
		return BuildConfiguration{}, err
	}

	s.mu.Lock()
	list := s.load()
	list = upsert(list, cfg)
	if !cfg.OverrideEnabled && !cfg.IsSITL() {
		upload := cfg
		upload.Name = UploadTaskName(cfg.Name)
		list = upsert(list, upload)
	} else {
		// An update that switched the record to SITL or override mode must
		// not leave the hardware companion behind.
		list = removeByName(list, UploadTaskName(cfg.Name))
	}
	err := s.write(list)
	s.mu.Unlock()
	if err != nil {
		return BuildConfiguration{}, err
	}

	s.notify()
	return cfg, nil
}

// Delete removes the named configuration and its upload companion. Unknown
// names are a silent no-op.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	list := s.load()
	kept := make([]BuildConfiguration, 0, len(list))
	removed := false
	for _, cfg := range list {
		if cfg.Name == name || cfg.Name == UploadTaskName(name) {
			removed = true
			continue
		}
		kept = append(kept, cfg)
	}
	var err error
	if removed {
		err = s.write(kept)
	}
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if removed {
		s.notify()
	}
	return nil
}

// ActiveName returns the persisted selection, or "" when none is set.
func (s *Store) ActiveName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.v.GetString(activeKey)
}

// SetActiveName persists the current selection.
func (s *Store) SetActiveName(name string) error {
	s.mu.Lock()
	s.v.Set(activeKey, name)
	err := s.writeFile()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// MigrateLegacyRecords assigns "<board>-<target>" names to persisted records
// that predate named configurations. Reports whether the file was rewritten.
// Unparsable persisted state is logged and treated as nothing to migrate.
func (s *Store) MigrateLegacyRecords() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.v.Get(configurationsKey).([]interface{})
	if !ok {
		if s.v.Get(configurationsKey) != nil {
			debugLog("configurations key is not a list, skipping migration")
		}
		return false, nil
	}

	changed := false
	for _, entry := range raw {
		record, ok := entry.(map[string]interface{})
		if !ok {
			debugLog("skipping non-record configuration entry during migration")
			continue
		}
		if name, _ := record["configname"].(string); name != "" {
			continue
		}
		if name, _ := record["configName"].(string); name != "" {
			continue
		}
		board, _ := record["board"].(string)
		target, _ := record["target"].(string)
		if board == "" || target == "" {
			continue
		}
		record["configName"] = board + "-" + target
		changed = true
	}
	if !changed {
		return false, nil
	}
	s.v.Set(configurationsKey, raw)
	if err := s.writeFile(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) load() []BuildConfiguration {
	var list []BuildConfiguration
	if err := s.v.UnmarshalKey(configurationsKey, &list); err != nil {
		debugLog("malformed configuration list: %v", err)
		return nil
	}
	return list
}

func (s *Store) write(list []BuildConfiguration) error {
	encoded := make([]map[string]interface{}, 0, len(list))
	for i := range list {
		encoded = append(encoded, encodeRecord(&list[i]))
	}
	s.v.Set(configurationsKey, encoded)
	return s.writeFile()
}

func (s *Store) writeFile() error {
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	listeners := make([]func(), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}

func removeByName(list []BuildConfiguration, name string) []BuildConfiguration {
	kept := list[:0]
	for _, cfg := range list {
		if cfg.Name != name {
			kept = append(kept, cfg)
		}
	}
	return kept
}

func upsert(list []BuildConfiguration, cfg BuildConfiguration) []BuildConfiguration {
	for i := range list {
		if list[i].Name == cfg.Name {
			list[i] = cfg
			return list
		}
	}
	return append(list, cfg)
}

func encodeRecord(cfg *BuildConfiguration) map[string]interface{} {
	record := map[string]interface{}{"configName": cfg.Name}
	if cfg.OverrideEnabled {
		record["overrideEnabled"] = true
		record["customConfigureCommand"] = cfg.CustomConfigureCommand
		record["customBuildCommand"] = cfg.CustomBuildCommand
	} else {
		record["board"] = cfg.Board
		record["target"] = cfg.Target
		if cfg.ConfigureOptions != "" {
			record["configureOptions"] = cfg.ConfigureOptions
		}
		if cfg.BuildOptions != "" {
			record["buildOptions"] = cfg.BuildOptions
		}
	}
	if cfg.SimVehicleCommand != "" {
		record["simVehicleCommand"] = cfg.SimVehicleCommand
	}
	if cfg.Waffile != "" {
		record["waffile"] = cfg.Waffile
	}
	if len(cfg.Features) > 0 {
		record["features"] = cfg.Features
	}
	return record
}
