package conftools

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "AZPUBLISH"

// Flags that only steer the command line itself and never end up in a configuration struct.
var ignoredFlags = map[string]struct{}{
	"help": {},
}

func decoderHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
	dc.ErrorUnused = true
}

// New returns a viper instance reading AZPUBLISH_* environment variables,
// where dashes in flag names become underscores.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load binds the parsed flags and decodes everything into cfg. Values are resolved with
// the following precedence: flags > environment variables > config file > flag defaults.
// An empty configFile means no config file.
func Load(v *viper.Viper, flags *flag.FlagSet, configFile string, cfg interface{}) error {
	var err error

	if len(configFile) > 0 {
		v.SetConfigFile(configFile)
		err = v.ReadInConfig()
		if err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("read config file: %w", err)
			}
		}
	}

	flags.VisitAll(func(f *flag.Flag) {
		if err != nil {
			return
		}
		if _, ignored := ignoredFlags[f.Name]; ignored {
			return
		}
		err = v.BindPFlag(f.Name, f)
	})
	if err != nil {
		return err
	}

	err = v.Unmarshal(cfg, decoderHook)
	if err != nil {
		return err
	}

	return nil
}

// Return a human-readable printout of all configuration options, except secret stuff.
func Format(v *viper.Viper, disallowedKeys []string) []string {
	ok := func(key string) bool {
		for _, forbiddenKey := range disallowedKeys {
			if forbiddenKey == key {
				return false
			}
		}
		return true
	}

	var keys sort.StringSlice = v.AllKeys()

	printed := make([]string, 0)

	keys.Sort()
	for _, key := range keys {
		if ok(key) {
			printed = append(printed, fmt.Sprintf("%s: %v", key, v.Get(key)))
		} else {
			printed = append(printed, fmt.Sprintf("%s: ***REDACTED***", key))
		}
	}

	return printed
}
