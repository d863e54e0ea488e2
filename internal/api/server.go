package api

import (
	"sync"

	"vokzal/internal/form"
	"vokzal/internal/meta"
	"vokzal/internal/reference"
	"vokzal/internal/report"
	"vokzal/internal/store"
)

// Server держит всё состояние процесса: снимок метаданных и
// справочников (заменяется целиком при reload), хранилище, генератор
// отчётов и реестр сессий просмотра.
type Server struct {
	mu      sync.RWMutex
	catalog *meta.Catalog
	enums   map[string]reference.EnumDirectory

	Store    *store.Store
	Reports  *report.Generator
	Sessions *SessionRegistry

	// пути для горячей перезагрузки документов
	MetadataPath string
	EnumsDir     string
}

func NewServer(catalog *meta.Catalog, enums map[string]reference.EnumDirectory, metadataPath, enumsDir string) *Server {
	return &Server{
		catalog:      catalog,
		enums:        enums,
		MetadataPath: metadataPath,
		EnumsDir:     enumsDir,
	}
}

// Describe — store.MetaSource поверх текущего снимка каталога
func (s *Server) Describe(table string) (*meta.Table, error) {
	s.mu.RLock()
	c := s.catalog
	s.mu.RUnlock()
	return c.Describe(table)
}

// Tables — имена таблиц для селектора, в порядке документа
func (s *Server) Tables() []string {
	s.mu.RLock()
	c := s.catalog
	s.mu.RUnlock()
	return c.Tables()
}

// Engine собирает движок форм над текущим снимком
func (s *Server) Engine() *form.Engine {
	s.mu.RLock()
	enums := s.enums
	s.mu.RUnlock()
	return form.NewEngine(s, s.Store, enums)
}

// swap атомарно подменяет оба документа (после успешного линта)
func (s *Server) swap(catalog *meta.Catalog, enums map[string]reference.EnumDirectory) {
	s.mu.Lock()
	s.catalog = catalog
	s.enums = enums
	s.mu.Unlock()
}
