// Package config loads backdrop's configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/backdrop/config.toml (default)
//  3. If the config file doesn't exist, fall back to hardcoded defaults
//  4. If the file exists but fields are missing/empty, use defaults
//  5. Load ./.env (without overriding the process environment), then apply
//     UNSPLASH_ACCESS_KEY and USE_DEMO_MODE
//
// Without an access key backdrop runs in demo mode using a fixed set of
// Unsplash photo URLs.
//
// # TOML Format
//
//	access_key = "..."
//	category = "random"          # or any category, see `backdrop categories`
//	search = "aurora,glacier"    # takes priority over category
//	interval = "auto"            # or minutes, e.g. "1.5"
//	max_interval = 600           # seconds, caps the adaptive interval
//	reserved_for_manual = 10
//	manual_cooldown = 5          # seconds, never less than 5
//	rate_limit_per_hour = 50
//	img_dir = "~/.local/share/backdrop/img"
//	saved_dir = "~/.local/share/backdrop/img/saved"
//	requests_log = "~/.local/state/backdrop/requests.toml"
//	log_level = "info"
//	log_file = "~/.local/state/backdrop/backdrop.log"
//	theme = "Nightfox"          # or "Slate"
//	save_downloads = false
//
// Tilde expansion is performed for every path field.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files, TOML
// parse errors ("parse config: ..."), and values that parse but make no
// sense, which wrap ErrInvalid. A missing file is not an error.
package config
