package httpapi

import (
	"MediVerify/internal/core/ports"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Deps wires the API to the verification services.
type Deps struct {
	Accounts      Accounts
	Verifications DoctorVerifications
	Profiles      DoctorProfiles
	Aadhaar       AadhaarVerifications
	Abha          AbhaVerifications
	JWT           *JWTService
	// IPThrottle limits unauthenticated abuse of the OTP routes per IP.
	IPThrottle ports.RequestThrottle
	// DevOTP echoes issued codes in the response. Never enable in prod.
	DevOTP bool
}

// API holds the HTTP handlers.
type API struct {
	accounts      Accounts
	verifications DoctorVerifications
	profiles      DoctorProfiles
	aadhaar       AadhaarVerifications
	abha          AbhaVerifications
	devOTP        bool
}

// NewRouter creates a new HTTP router with all routes configured
func NewRouter(deps Deps, baseLogger *zerolog.Logger) *chi.Mux {
	a := &API{
		accounts:      deps.Accounts,
		verifications: deps.Verifications,
		profiles:      deps.Profiles,
		aadhaar:       deps.Aadhaar,
		abha:          deps.Abha,
		devOTP:        deps.DevOTP,
	}
	log := baseLogger.With().Str("component", "http_api").Logger()

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(authenticate(deps.JWT))

		r.Route("/me", func(r chi.Router) {
			r.Get("/", a.getMe)
			r.Put("/", a.saveMe)
			r.Post("/telegram", a.issueTelegramLink)
		})

		r.Route("/doctor", func(r chi.Router) {
			r.Get("/profile", a.getMyProfile)
			r.Put("/profile", a.saveProfile)
			r.Get("/verification", a.getMyVerification)
			r.Post("/verification", a.submitVerification)
		})

		r.Get("/doctors", a.listDoctors)
		r.Get("/doctors/{id}", a.getDoctor)

		r.Route("/identity", func(r chi.Router) {
			r.Get("/aadhaar", a.aadhaarStatus)
			r.Group(func(r chi.Router) {
				if deps.IPThrottle != nil {
					r.Use(throttleByIP(deps.IPThrottle, "otp"))
				}
				r.Post("/aadhaar/otp", a.sendAadhaarOtp)
				r.Post("/aadhaar/verify", a.verifyAadhaarOtp)
			})
			r.Get("/abha", a.abhaStatus)
			r.Post("/abha", a.initiateAbha)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Get("/verifications", a.listRequests)
			r.Post("/verifications/{id}/review", a.reviewRequest)
			r.Post("/verifications/{id}/reopen", a.reopenRequest)
			r.Get("/stats", a.stats)
			r.Post("/abha/{id}/verify", a.markAbhaVerified)
		})
	})

	return r
}
