package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"location": "Local",
		"store": map[string]interface{}{
			"backend":     BackendJSON,
			"path":        "~/.howler/reminders.json",
			"sqlite_path": "~/.howler/reminders.db",
		},
		"speech": map[string]interface{}{
			"command": "espeak-ng",
			"rate":    170,
			"volume":  1.0,
			"voice":   "", // engine default
		},
		"scheduler": map[string]interface{}{
			"enabled":  true,
			"interval": 60,
		},
		"policy": map[string]interface{}{
			"tomorrow": map[string]interface{}{
				"start_hour":       8,
				"end_hour":         22,
				"cooldown_minutes": 30,
			},
			"today": map[string]interface{}{
				"start_hour":       7,
				"end_hour":         23,
				"cooldown_minutes": 15,
			},
			"overdue": map[string]interface{}{
				"start_hour":       8,
				"end_hour":         20,
				"cooldown_minutes": 60,
			},
		},
		"telegram": map[string]interface{}{
			"enabled":   false,
			"bot_token": "",
			"chat_id":   0,
		},
		"log": map[string]interface{}{
			"level":       "info",
			"development": false,
			"file":        "",
		},
		"ui": map[string]interface{}{
			"colored_output": true,
			"history_file":   "~/.howler/history",
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.howler/config.yaml"
}
