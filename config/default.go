package config

import _ "embed"

// DefaultConfigYAML 内置默认配置，外部 config.yaml 可覆盖其中任意字段
//
//go:embed config.default.yaml
var DefaultConfigYAML []byte
