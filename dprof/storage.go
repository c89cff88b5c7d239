package dprof

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/avalon-vm/panda/serializer"
)

// MaxBufferSize bounds a single stored app-data file (storage.h's
// AppDataStorage::MAX_BUFFER_SIZE).
const MaxBufferSize = 16 * 1024 * 1024

// AppData is one completed profiling session: the app's identity plus
// every named feature blob it reported.
type AppData struct {
	Name     string
	Hash     uint64
	PID      uint32
	Features map[string][]byte
}

func NewAppData(name string, hash uint64, pid uint32, features map[string][]byte) *AppData {
	return &AppData{Name: name, Hash: hash, PID: pid, Features: features}
}

// ToBuffer serializes a common-info tuple followed by a sorted
// name->bytes feature map, mirroring storage.cpp's
// StructToBuffer<3>(common_info_)+TypeToBuffer(features_map_) pair.
func (a *AppData) ToBuffer() []byte {
	buf := serializer.StructToBuffer(nil,
		serializer.StringField(&a.Name),
		serializer.Uint64Field(&a.Hash),
		serializer.Uint32Field(&a.PID),
	)

	names := make([]string, 0, len(a.Features))
	for name := range a.Features {
		names = append(names, name)
	}
	sort.Strings(names)

	buf = serializer.PutUint32(buf, uint32(len(names)))
	for _, name := range names {
		buf = serializer.PutString(buf, name)
		buf = serializer.PutBytes(buf, a.Features[name])
	}
	return buf
}

func parseFeatures(data []byte) (map[string][]byte, int, error) {
	count, total, err := serializer.GetUint32(data)
	if err != nil {
		return nil, 0, fmt.Errorf("feature count: %w", err)
	}
	features := make(map[string][]byte, count)
	for i := uint32(0); i < count; i++ {
		name, n, err := serializer.GetString(data[total:])
		if err != nil {
			return nil, 0, fmt.Errorf("feature %d name: %w", i, err)
		}
		total += n
		value, n, err := serializer.GetBytes(data[total:])
		if err != nil {
			return nil, 0, fmt.Errorf("feature %d data: %w", i, err)
		}
		total += n
		features[name] = value
	}
	return features, total, nil
}

// AppDataFromBuffer deserializes a buffer written by ToBuffer.
func AppDataFromBuffer(buf []byte) (*AppData, error) {
	var a AppData
	n, err := serializer.BufferToStruct(buf, false,
		serializer.StringField(&a.Name),
		serializer.Uint64Field(&a.Hash),
		serializer.Uint32Field(&a.PID),
	)
	if err != nil {
		return nil, fmt.Errorf("dprof: decode common info: %w", err)
	}

	features, consumed, err := parseFeatures(buf[n:])
	if err != nil {
		return nil, fmt.Errorf("dprof: decode features: %w", err)
	}
	if n+consumed != len(buf) {
		return nil, fmt.Errorf("dprof: residual bytes after decoding app data: consumed %d of %d", n+consumed, len(buf))
	}
	a.Features = features
	return &a, nil
}

// ErrStorageDirRequired is returned when a storage directory was not set.
var ErrStorageDirRequired = errors.New("dprof: storage directory must be set")

// AppDataStorage persists AppData to one file per
// <app_name>@<pid>@<hash> under a storage directory (storage.h's
// AppDataStorage).
type AppDataStorage struct {
	dir string
}

// OpenStorage validates (and optionally creates) dir and returns a storage
// handle over it.
func OpenStorage(dir string, createDir bool) (*AppDataStorage, error) {
	if dir == "" {
		return nil, ErrStorageDirRequired
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return nil, fmt.Errorf("dprof: %s already exists and is not a directory", dir)
		}
	case os.IsNotExist(err) && createDir:
		if err := os.MkdirAll(dir, 0o770); err != nil {
			return nil, fmt.Errorf("dprof: mkdir %s: %w", dir, err)
		}
	default:
		return nil, err
	}
	return &AppDataStorage{dir: dir}, nil
}

func (s *AppDataStorage) path(name string, hash uint64, pid uint32) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s@%d@%d", name, pid, hash))
}

// Save writes a's serialized form to its app file, overwriting any prior
// session for the same (name, pid, hash).
func (s *AppDataStorage) Save(a *AppData) error {
	return os.WriteFile(s.path(a.Name, a.Hash, a.PID), a.ToBuffer(), 0o640)
}

// ForEach visits every stored AppData in the directory, skipping
// oversized or unreadable files rather than failing outright (mirrors
// storage.cpp's ForEachApps, which logs and continues on a bad entry).
// fn returning false stops iteration early.
func (s *AppDataStorage) ForEach(fn func(*AppData) bool) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		info, err := ent.Info()
		if err != nil || info.Size() > MaxBufferSize {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, ent.Name()))
		if err != nil {
			continue
		}
		app, err := AppDataFromBuffer(data)
		if err != nil {
			continue
		}
		if !fn(app) {
			break
		}
	}
	return nil
}
