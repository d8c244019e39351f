// Package config loads the geo configuration.
//
// Settings come from three layers, later ones winning:
//
//  1. Built-in defaults.
//  2. geo.yaml in the working directory, or the file named by --config.
//  3. GEO_ prefixed environment variables, with dots replaced by
//     underscores: GEO_SERVER_ADDRESS overrides server.address.
//
// Deploy-time values that are not part of geo.yaml, such as the BASE_URL the
// console is mounted under, are read from the environment into Env.
//
// # Configuration File Structure
//
//	server:
//	  address: ":8080"
//	routes:
//	  history: web
//	  load_timeout: 10s
//	database:
//	  path: geo.db
//	llm:
//	  base_url: https://dashscope.aliyuncs.com/compatible-mode/v1
//	  model: qwen-plus
//	  api_key_env: DASHSCOPE_API_KEY
//	publish:
//	  backend: disk
//	  dir: published
//	scheduler:
//	  enabled: true
package config
