// Package config loads the directory configuration from YAML.
//
// Every field has a default matching the classic layout: the snapshot,
// audit log and backups live side by side in the data directory. Durations
// use Go syntax ("24h", "360h").
//
// Example file:
//
//	data_dir: /var/lib/minitel
//	snapshot_file: contacts_snapshot.csv
//	audit_file: contacts_log.csv
//	restore_window: 360h
//	max_records: 10000
//	backup:
//	  interval: 24h
//	  keep: 30
//	logging:
//	  level: debug
//	  format: json
package config
