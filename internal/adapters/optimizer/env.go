package optimizer

import "strings"

// allowListedEnvVars are the environment variables the compiler inherits.
var allowListedEnvVars = map[string]struct{}{
	"HOME":              {},
	"PATH":              {},
	"TMPDIR":            {},
	"ANDROID_ROOT":      {},
	"ANDROID_DATA":      {},
	"ANDROID_I18N_ROOT": {},
}

func filterSystemEnv(sysEnv []string) []string {
	env := make([]string, 0, len(allowListedEnvVars))
	for _, entry := range sysEnv {
		k, _, ok := strings.Cut(entry, "=")
		if !ok {
			continue
		}
		if _, allowed := allowListedEnvVars[k]; allowed {
			env = append(env, entry)
		}
	}
	return env
}
