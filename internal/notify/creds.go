package notify

import (
	"github.com/msgrelay/msgrelay/internal/config"
)

// credField is one credential required by a channel. An explicit value
// always wins; otherwise the named configuration key is consulted.
// A field with no key and no explicit value can only come up missing.
type credField struct {
	name     string // field name reported in errors, e.g. "sender"
	explicit string // caller-supplied value, empty means unset
	key      string // config key fallback, empty means explicit-only
	optional bool
}

// resolveCredentials resolves every field before failing, so one error
// names all unresolved fields rather than just the first.
func resolveCredentials(store config.Store, channel string, fields []credField) (map[string]string, error) {
	if store == nil {
		store = config.Map{}
	}
	vals := make(map[string]string, len(fields))
	var missing []string
	for _, f := range fields {
		if f.explicit != "" {
			vals[f.name] = f.explicit
			continue
		}
		if f.key != "" {
			if v, ok := store.Get(f.key); ok {
				vals[f.name] = v
				continue
			}
		}
		if !f.optional {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingCredentialsError{Channel: channel, Missing: missing}
	}
	return vals, nil
}
