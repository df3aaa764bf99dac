package cache

import (
	"encoding/json"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// The cache is a plain string KV persisted as json in the user's home dir. It
// only stores explorer lookups that never change (verified ABIs, contract
// metadata, token decimals) so stale entries are not a correctness concern.
var (
	CACHE_PATH string = filepath.Join(getHomeDir(), ".bscscope", "cache.json")
	cache      *simpleCache
	mu         sync.Mutex
)

func getHomeDir() string {
	usr, err := user.Current()
	if err != nil {
		log.Fatal(err)
	}
	return usr.HomeDir
}

type simpleCache struct {
	Data map[string]string `json:"Data"`
}

func (c *simpleCache) Persist() error {
	jsonData, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(CACHE_PATH), 0755); err != nil {
		return err
	}
	return os.WriteFile(CACHE_PATH, jsonData, 0644)
}

func loadSimpleCache() *simpleCache {
	if cache != nil {
		return cache
	}
	cache = &simpleCache{
		Data: map[string]string{},
	}
	content, err := os.ReadFile(CACHE_PATH)
	if err != nil {
		// WARNING: swallow error here
		return cache
	}
	err = json.Unmarshal(content, cache)
	if err != nil {
		// WARNING: swallow error here
		return cache
	}
	return cache
}

func GetCache(key string) (string, bool) {
	mu.Lock()
	defer mu.Unlock()

	value, found := loadSimpleCache().Data[strings.ToLower(key)]
	if !found {
		return "", false
	}
	return value, true
}

func SetCache(key, value string) error {
	mu.Lock()
	defer mu.Unlock()
	c := loadSimpleCache()
	c.Data[strings.ToLower(key)] = value
	return c.Persist()
}

func GetBoolCache(key string) (bool, bool) {
	str, found := GetCache(key)
	if !found {
		return false, false
	}
	value, err := strconv.ParseBool(str)
	if err != nil {
		return false, false
	}
	return value, true
}

func SetBoolCache(key string, value bool) error {
	return SetCache(key, strconv.FormatBool(value))
}

func GetInt64Cache(key string) (int64, bool) {
	str, found := GetCache(key)
	if !found {
		return 0, false
	}
	value, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func SetInt64Cache(key string, value int64) error {
	return SetCache(key, strconv.FormatInt(value, 10))
}
