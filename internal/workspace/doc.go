// Package workspace locates a multi-package workspace on disk and manages the
// per-run build log directories inside it.
//
// A workspace root is the nearest ancestor directory holding a workspaceInfo
// file. Packages live under <root>/src; a package is checked out when its
// directory holds a Config file.
//
// Every run writes its logs to a fresh timestamped directory,
// <root>/bws/logs/2006_01_02_15_04_05, suffixed with .01, .02, ... when two
// runs start within the same second. Old run directories are removed with
// CleanOlderThan.
package workspace
