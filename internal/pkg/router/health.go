package router

import "github.com/shandysiswandi/otpguard/internal/pkg/goerror"

type healthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

func (h healthResponse) Message() string { return "service health" }

func healthHandler(checks map[string]HealthCheck) Handler {
	return func(r *Request) (any, error) {
		resp := healthResponse{Status: "ok", Dependencies: make(map[string]string, len(checks))}

		var failed []string
		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				resp.Dependencies[name] = "down"
				failed = append(failed, name, "down")
				continue
			}
			resp.Dependencies[name] = "up"
		}

		if len(failed) > 0 {
			return nil, goerror.NewBusinessWithFields("Service unavailable", goerror.CodeUnavailable, failed...)
		}

		return resp, nil
	}
}

