package render

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed labels.yaml
var labelsYAML []byte

// CostItem - статья раздела стоимости и ее подпись.
type CostItem struct {
	Key   string `yaml:"key"`
	Label string `yaml:"label"`
}

// CostSectionLabels - подписи раздела стоимости.
type CostSectionLabels struct {
	Key      string     `yaml:"key"`
	Title    string     `yaml:"title"`
	Subtotal string     `yaml:"subtotal"`
	Items    []CostItem `yaml:"items"`
}

// Catalog - подписи, которые видит пользователь.
type Catalog struct {
	Architecture   map[string]string   `yaml:"architecture"`
	Infrastructure map[string]string   `yaml:"infrastructure"`
	Sections       map[string]string   `yaml:"sections"`
	CostSections   []CostSectionLabels `yaml:"cost_sections"`
	Alerts         map[string]string   `yaml:"alerts"`
}

// LoadCatalog разбирает встроенный каталог подписей.
func LoadCatalog() (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(labelsYAML, &catalog); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return &catalog, nil
}

// ArchitectureName возвращает название архитектуры или исходный ключ.
func (c *Catalog) ArchitectureName(key string) string {
	return lookup(c.Architecture, key)
}

// InfrastructureName возвращает название позиции инфраструктуры или исходный ключ.
func (c *Catalog) InfrastructureName(key string) string {
	return lookup(c.Infrastructure, key)
}

// SectionTitle возвращает заголовок секции отчета.
func (c *Catalog) SectionTitle(container string) string {
	return lookup(c.Sections, container)
}

// Alert возвращает текст сообщения пользователю.
func (c *Catalog) Alert(key string) string {
	return lookup(c.Alerts, key)
}

func lookup(values map[string]string, key string) string {
	if value, ok := values[key]; ok {
		return value
	}
	return key
}
