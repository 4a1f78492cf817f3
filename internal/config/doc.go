// Package config defines the launch configuration of the lobby client.
//
// Configuration can be provided via:
//   - Command-line flags (--app-session-id, --portal-user-name,
//     --app-avatar-image-url, --app-avatar-model-url)
//   - Environment variables (LOBBY_ prefix)
//   - YAML or TOML configuration file
//
// Flags override the environment, which overrides the file.
//
// # Structure
//
//	type Config struct {
//	    SessionID     int
//	    PlayerName    string
//	    Avatar        AvatarConfig
//	    Fetch         FetchConfig
//	    Log           LogConfig
//	    FailurePolicy FailurePolicy
//	}
//
//	type FetchConfig struct {
//	    Timeout   time.Duration
//	    MaxSize   int64
//	    MaxPixels int
//	}
package config
