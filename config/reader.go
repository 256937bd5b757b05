package config

import (
	"bytes"
	"encoding/json"
	"io"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/a8m/envsubst"
	"github.com/edaniels/golog"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	rutils "go.viam.com/splinedrive/utils"
)

// Read reads a run config from the given file. ${VAR} references are replaced with
// environment values before parsing. Files ending in .yaml or .yml are parsed as YAML,
// anything else as JSON.
func Read(filePath string, logger golog.Logger) (*Config, error) {
	buf, err := envsubst.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return FromReader(filePath, bytes.NewReader(buf), logger)
}

// FromReader reads a config from the given reader and specifies
// where, if applicable, the file the reader originated from.
func FromReader(originalPath string, r io.Reader, logger golog.Logger) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	attrs := map[string]interface{}{}
	switch strings.ToLower(filepath.Ext(originalPath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &attrs); err != nil {
			return nil, errors.Wrap(err, "failed to decode Config from yaml")
		}
	default:
		if err := json.Unmarshal(data, &attrs); err != nil {
			return nil, errors.Wrap(err, "failed to decode Config from json")
		}
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.DecodeHookFuncType(waypointHook),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(attrs); err != nil {
		return nil, errors.Wrap(err, "failed to process Config")
	}
	cfg.ConfigFilePath = originalPath
	if err := cfg.Ensure(originalPath); err != nil {
		return nil, err
	}

	logger.Debugw("read run config",
		"path", originalPath,
		"waypoints", len(cfg.Waypoints),
		"total_time_sec", cfg.TotalTimeSec,
		"time_step_sec", cfg.TimeStepSec,
	)
	return cfg, nil
}

// waypointHook lets a waypoint be written as a two element [x, y] list.
func waypointHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(Waypoint{}) {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Slice, reflect.Array:
	case reflect.Map:
		return data, nil
	default:
		return nil, errors.Wrapf(rutils.NewUnexpectedTypeError([]float64{}, data), "waypoint %v", data)
	}
	v := reflect.ValueOf(data)
	if v.Len() != 2 {
		return nil, errors.Errorf("waypoint %v must have exactly 2 coordinates", data)
	}
	return map[string]interface{}{"x": v.Index(0).Interface(), "y": v.Index(1).Interface()}, nil
}
