package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shraddha-r0/financial-rag-graph/internal/domain"
	"github.com/shraddha-r0/financial-rag-graph/internal/ports"
)

// DoctorService runs environment diagnostics: config, database, embedding
// backend, and chart output directory.
type DoctorService struct {
	ConfigProvider ports.ConfigProvider
	Store          ports.Store
	Embedder       ports.Embedder
	Resolver       ports.CategoryResolver
}

// Run executes checks and returns a report.
func (s *DoctorService) Run(ctx context.Context) (domain.HealthReport, error) {
	var checks []domain.HealthCheck

	cfg, err := s.ConfigProvider.Load(ctx)
	if err != nil {
		checks = append(checks, fail("Config file", fmt.Sprintf("load failed: %v", err)))
		return domain.HealthReport{Checks: checks}, err
	}
	checks = append(checks, ok("Config file", fmt.Sprintf("format version %s", cfg.ConfigFormatVersion)))

	checks = append(checks, s.databaseCheck(ctx, cfg))
	checks = append(checks, s.embedderCheck(ctx, cfg))
	checks = append(checks, s.resolverCheck())
	checks = append(checks, chartDirCheck(cfg.Charts))
	checks = append(checks, rulesFileCheck(cfg.Security.RulesFile))

	return domain.HealthReport{Checks: checks}, nil
}

func (s *DoctorService) databaseCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Store == nil {
		return fail("Database", "store not initialized")
	}
	if _, err := os.Stat(cfg.Database.Path); err != nil {
		return fail("Database", fmt.Sprintf("missing at %s (run the import step)", cfg.Database.Path))
	}
	tables, err := s.Store.ListTables(ctx)
	if err != nil {
		return fail("Database", err.Error())
	}
	for _, table := range tables {
		if table == cfg.Database.Table {
			return ok("Database", fmt.Sprintf("table %s present", table))
		}
	}
	return warn("Database", fmt.Sprintf("table %s not found among %d tables", cfg.Database.Table, len(tables)))
}

func (s *DoctorService) embedderCheck(ctx context.Context, cfg domain.Config) domain.HealthCheck {
	if s.Embedder == nil {
		return warn("Embeddings", "no backend configured; exact matching only")
	}
	if hc, canCheck := s.Embedder.(ports.HealthChecker); canCheck {
		if err := hc.HealthCheck(ctx); err != nil {
			return warn("Embeddings", fmt.Sprintf("%s unreachable: %v", s.Embedder.Name(), err))
		}
	}
	return ok("Embeddings", fmt.Sprintf("%s (provider %s)", s.Embedder.Name(), cfg.Resolver.Provider))
}

func (s *DoctorService) resolverCheck() domain.HealthCheck {
	if s.Resolver == nil {
		return fail("Categories", "resolver not initialized")
	}
	categories := s.Resolver.Categories()
	if len(categories) == 0 {
		return warn("Categories", "no canonical categories loaded")
	}
	return ok("Categories", fmt.Sprintf("%d canonical categories", len(categories)))
}

func chartDirCheck(cfg domain.ChartSettings) domain.HealthCheck {
	if !cfg.Enabled {
		return ok("Charts", "disabled")
	}
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return warn("Charts", fmt.Sprintf("output dir not writable: %v", err))
	}
	probe := filepath.Join(cfg.OutputDir, ".doctor_probe")
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return warn("Charts", fmt.Sprintf("output dir not writable: %v", err))
	}
	_ = os.Remove(probe)
	return ok("Charts", cfg.OutputDir)
}

func rulesFileCheck(path string) domain.HealthCheck {
	if path == "" {
		return ok("Safety rules", "built-in deny list only")
	}
	if _, err := os.Stat(path); err != nil {
		return warn("Safety rules", fmt.Sprintf("extra rules missing at %s; built-ins still apply", path))
	}
	return ok("Safety rules", path)
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
