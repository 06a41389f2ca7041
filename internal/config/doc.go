// Package config loads tidytype settings.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Arguments  │  ← Highest priority (applied by cmd/tidytype)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← TIDYTYPE_*
//	├─────────────────────────────┤
//	│  2. User Settings           │  ← ~/.config/tidytype/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	delay := cfg.Playback.CharDelay()
//
// # Environment Variables
//
// Every setting has a TIDYTYPE_<SECTION>_<KEY> variable, for example
// TIDYTYPE_PROVIDER_MODEL or TIDYTYPE_PLAYBACK_CHAR_DELAY_MS. When no API
// key is configured, the provider's conventional variable (OPENAI_API_KEY,
// ANTHROPIC_API_KEY, GEMINI_API_KEY) is used.
//
// # Live Reload
//
// Watch reloads the file whenever it changes and hands the new
// configuration to a callback. Invalid edits are logged and ignored.
package config
