package application

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/typereader/infrastructure/stats"
	"github.com/ahrav/typereader/internal/domain"
	"github.com/ahrav/typereader/internal/ports"
)

// Supported configuration formats.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Engine is a compiled configuration: the validated Config together with
// the taxonomy and aggregator built from it. Engines are shared between
// callers and must not be mutated.
type Engine struct {
	Config     *Config
	Taxonomy   *domain.Taxonomy
	Aggregator *domain.Aggregator
	Stats      *stats.Registry
}

// ConfigLoader parses, validates and compiles configuration files.
// Compiled engines are cached by the SHA256 of the normalised config, and
// concurrent loads of the same config are collapsed into one compilation.
// A ConfigLoader is safe for concurrent use.
type ConfigLoader struct {
	// validator performs struct tag validation plus the custom semver,
	// fieldname and statistic rules.
	validator *validator.Validate
	// registry provides the reductions every compiled aggregator uses.
	registry *stats.Registry
	// cache stores compiled engines indexed by config hash.
	cache   map[string]*Engine
	cacheMu sync.RWMutex
	// sf prevents duplicate compilation when several goroutines load the
	// same configuration simultaneously.
	sf singleflight.Group
}

// NewConfigLoader creates a loader whose engines use registry. A nil
// registry selects stats.Default.
func NewConfigLoader(registry *stats.Registry) (*ConfigLoader, error) {
	if registry == nil {
		registry = stats.Default()
	}
	v := validator.New()
	if err := registerCustomValidators(v, registry); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}
	return &ConfigLoader{
		validator: v,
		registry:  registry,
		cache:     make(map[string]*Engine),
	}, nil
}

// Default compiles DefaultConfig.
func (cl *ConfigLoader) Default(ctx context.Context) (*Engine, error) {
	return cl.compile(ctx, DefaultConfig())
}

// LoadFromFile loads a YAML (.yaml, .yml) or TOML (.toml) configuration.
// Fields the file omits keep their DefaultConfig values.
func (cl *ConfigLoader) LoadFromFile(ctx context.Context, path string) (*Engine, error) {
	cleanPath := filepath.Clean(path)

	format, err := FormatFromPath(cleanPath)
	if err != nil {
		return nil, ports.NewConfigError(cleanPath, err)
	}
	data, err := os.ReadFile(cleanPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ports.NewConfigError(cleanPath, fmt.Errorf("%w: %w", ports.ErrConfigNotFound, err))
	}
	if err != nil {
		return nil, ports.NewConfigError(cleanPath, fmt.Errorf("failed to read file: %w", err))
	}
	engine, err := cl.load(ctx, data, format)
	if err != nil {
		return nil, ports.NewConfigError(cleanPath, err)
	}
	return engine, nil
}

// LoadFromReader loads a configuration in the given format from r.
func (cl *ConfigLoader) LoadFromReader(ctx context.Context, r io.Reader, format string) (*Engine, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return cl.load(ctx, data, format)
}

// FormatFromPath infers the configuration format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

func (cl *ConfigLoader) load(ctx context.Context, data []byte, format string) (*Engine, error) {
	var (
		config *Config
		err    error
	)
	switch format {
	case FormatYAML:
		config, err = parseYAML(data)
	case FormatTOML:
		config, err = parseTOML(data)
	default:
		err = fmt.Errorf("%w: %q", ports.ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return cl.compile(ctx, config)
}

// compile validates config and builds its engine, reusing a cached engine
// for an identical configuration.
func (cl *ConfigLoader) compile(ctx context.Context, config *Config) (*Engine, error) {
	hash, err := calculateConfigHash(config)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate hash: %w", err)
	}

	v, err, _ := cl.sf.Do(hash, func() (any, error) {
		if engine, ok := cl.getCachedEngine(hash); ok {
			return engine, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if err := cl.validateConfig(config); err != nil {
			return nil, fmt.Errorf("validation failed: %w", err)
		}
		engine, err := cl.buildEngine(config)
		if err != nil {
			return nil, fmt.Errorf("failed to build engine: %w", err)
		}

		cl.cacheEngine(hash, engine)
		return engine, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Engine), nil
}

// parseYAML decodes YAML over DefaultConfig. Unknown fields are rejected
// so typos are not silently ignored.
func parseYAML(data []byte) (*Config, error) {
	config := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(config); err != nil && err != io.EOF {
		return nil, fmt.Errorf("YAML decode failed: %w", err)
	}
	return config, nil
}

// parseTOML decodes TOML over DefaultConfig, rejecting unknown keys.
func parseTOML(data []byte) (*Config, error) {
	config := DefaultConfig()
	md, err := toml.Decode(string(data), config)
	if err != nil {
		return nil, fmt.Errorf("TOML decode failed: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("TOML decode failed: unknown keys %v", undecoded)
	}
	return config, nil
}

func (cl *ConfigLoader) validateConfig(config *Config) error {
	if err := cl.validator.Struct(config); err != nil {
		return fmt.Errorf("struct validation failed: %w", err)
	}
	if err := validateSemantics(config); err != nil {
		return fmt.Errorf("semantic validation failed: %w", err)
	}
	return nil
}

func (cl *ConfigLoader) buildEngine(config *Config) (*Engine, error) {
	taxonomy, err := domain.NewTaxonomy(config.Categories())
	if err != nil {
		return nil, err
	}
	aggregator, err := domain.NewAggregator(taxonomy, cl.registry)
	if err != nil {
		return nil, err
	}
	return &Engine{
		Config:     config,
		Taxonomy:   taxonomy,
		Aggregator: aggregator,
		Stats:      cl.registry,
	}, nil
}

// calculateConfigHash computes the SHA256 of the YAML re-encoding of
// config, so formatting differences and the source format do not matter.
func calculateConfigHash(config *Config) (string, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)

	if err := encoder.Encode(config); err != nil {
		return "", fmt.Errorf("failed to encode config for hashing: %w", err)
	}
	hash := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(hash[:]), nil
}

func (cl *ConfigLoader) getCachedEngine(hash string) (*Engine, bool) {
	cl.cacheMu.RLock()
	defer cl.cacheMu.RUnlock()

	engine, ok := cl.cache[hash]
	return engine, ok
}

func (cl *ConfigLoader) cacheEngine(hash string, engine *Engine) {
	cl.cacheMu.Lock()
	defer cl.cacheMu.Unlock()

	cl.cache[hash] = engine
}

// ClearCache removes all compiled engines.
func (cl *ConfigLoader) ClearCache() {
	cl.cacheMu.Lock()
	defer cl.cacheMu.Unlock()

	cl.cache = make(map[string]*Engine)
}
