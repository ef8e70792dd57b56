package config

import "encoding/json"

// Schema returns a JSON Schema describing witgo.yaml as indented JSON.
func Schema() []byte {
	schema := map[string]any{
		"$schema":              "https://json-schema.org/draft/2020-12/schema",
		"title":                "witgo.yaml",
		"description":          "Configuration for witgo — installer search, allow-list enforcement, and IPC/probe defaults.",
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"installer_path": map[string]any{
				"type":        "string",
				"description": "Configured override path for the installer binary, tried before app-data-relative paths and PATH.",
			},
			"app_data_dir": map[string]any{
				"type":        "string",
				"description": "Base directory searched for platform/arch/name, platform/name, and name installer binary layouts.",
			},
			"allow_list": map[string]any{
				"description":          "Binary Identity Gate enforcement.",
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"path": map[string]any{
						"type":        "string",
						"description": "Path to the allow-list JSON resource. If empty, allowlist.json in the app-data directory is used; if the file does not exist, the allow-list is empty.",
					},
					"strict": map[string]any{
						"type":        "boolean",
						"description": "If true, a validated binary absent from the allow-list is refused with BinaryNotAllowed instead of being used advisedly.",
					},
				},
			},
			"ipc": map[string]any{
				"description":          "Single-instance IPC server/client settings.",
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"base_port": map[string]any{
						"type":        "integer",
						"description": "First port tried when binding the loopback IPC server; defaults to 50505.",
					},
				},
			},
			"probe": map[string]any{
				"description":          "Installer Metadata Probe defaults.",
				"type":                 "object",
				"additionalProperties": false,
				"properties": map[string]any{
					"default_language_index": map[string]any{
						"type":        "integer",
						"description": "Language index used when a mod's language has not yet been selected.",
					},
					"timeout_seconds": map[string]any{
						"type":        "integer",
						"description": "Probe deadline in seconds; defaults to 8. The value is loaded and validated but not applied: probe invocations always use a fixed 8-second deadline, after which the child is killed and Timeout is reported.",
					},
				},
			},
		},
	}

	out, _ := json.MarshalIndent(schema, "", "  ")
	return out
}
