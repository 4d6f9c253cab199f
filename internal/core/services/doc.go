// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - IndexService flattens pages into search records.
//   - SearchEngine answers substring queries against the index store.
//   - SearchSession debounces interactive queries and discards stale answers.
//   - SettingsService resolves configuration into domain.SearchSettings.
package services
