package http

import (
	"errors"
	"net/http"
	"strings"

	"gastos/internal/auth"
	"gastos/internal/log"
	"gastos/internal/store"
)

type loginView struct {
	Email      string
	Error      string
	SignupMode bool
}

func (s *Server) renderLogin(w http.ResponseWriter, status int, view loginView) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.templates.ExecuteTemplate(w, "login.html", view); err != nil {
		s.logger.Error("login template failed", log.FieldError, err.Error())
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.renderLogin(w, http.StatusOK, loginView{})
	case http.MethodPost:
		s.handleSignIn(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, http.StatusBadRequest, loginView{Error: "Requisição inválida."})
		return
	}
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	token, err := s.auth.SignIn(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.renderLogin(w, http.StatusUnauthorized, loginView{
				Email: email,
				Error: "E-mail ou senha incorretos.",
			})
			return
		}
		s.logger.ErrorContext(r.Context(), "sign in failed", log.FieldError, err.Error())
		s.renderLogin(w, http.StatusInternalServerError, loginView{
			Email: email,
			Error: "Erro ao entrar. Tente novamente.",
		})
		return
	}

	http.SetCookie(w, s.auth.NewSessionCookie(token))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		s.renderLogin(w, http.StatusBadRequest, loginView{SignupMode: true, Error: "Requisição inválida."})
		return
	}
	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	_, token, err := s.auth.SignUp(r.Context(), email, password)
	if err != nil {
		view := loginView{Email: email, SignupMode: true}
		status := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, auth.ErrInvalidEmail):
			view.Error = "E-mail inválido."
		case errors.Is(err, auth.ErrWeakPassword):
			view.Error = "A senha precisa de pelo menos 8 caracteres."
		case errors.Is(err, store.ErrEmailTaken):
			view.Error = "Já existe uma conta com esse e-mail."
			status = http.StatusConflict
		default:
			s.logger.ErrorContext(r.Context(), "sign up failed", log.FieldError, err.Error())
			view.Error = "Erro ao criar a conta. Tente novamente."
			status = http.StatusInternalServerError
		}
		s.renderLogin(w, status, view)
		return
	}

	http.SetCookie(w, s.auth.NewSessionCookie(token))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	http.SetCookie(w, auth.ExpiredSessionCookie())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
