package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates uploads are unavailable while content still serves.
	Degraded Status = "degraded"
	// Unhealthy indicates a content store is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	posts    Pinger
	statuses Pinger
	uploads  Pinger
}

// New creates a Service. uploads can be nil.
func New(posts, statuses, uploads Pinger) *Service {
	return &Service{posts: posts, statuses: statuses, uploads: uploads}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	status := Healthy

	for name, p := range map[string]Pinger{"posts": s.posts, "statuses": s.statuses} {
		if err := p.Ping(ctx); err != nil {
			checks[name] = CheckError
			status = Unhealthy
		} else {
			checks[name] = CheckOK
		}
	}

	if s.uploads != nil {
		if err := s.uploads.Ping(ctx); err != nil {
			checks["uploads"] = CheckError
			if status == Healthy {
				status = Degraded
			}
		} else {
			checks["uploads"] = CheckOK
		}
	}

	return Report{Status: status, Checks: checks}
}
