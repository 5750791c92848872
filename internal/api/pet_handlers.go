package api

import "net/http"

type adoptPetRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=40"`
	Species string `json:"species" validate:"omitempty,oneof=cat dog owl fox dragon"`
}

func (s *Server) handleGetPet(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	pet, err := s.PetService.GetPet(r.Context(), user.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, pet)
}

func (s *Server) handleAdoptPet(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())

	var req adoptPetRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	pet, err := s.PetService.AdoptPet(r.Context(), user.ID, req.Name, req.Species)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, pet)
}
