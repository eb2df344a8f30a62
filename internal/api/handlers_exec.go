package api

import "net/http"

// Exec handles POST /api/exec, the raw SQL passthrough. It is wired behind
// the same auth middleware as everything else; the store applies no further
// restrictions on what the statement may touch.
func (h *Handler) Exec(w http.ResponseWriter, r *http.Request) {
	var req ExecRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.store.Exec(req.Query, req.Mode, req.Params)
	if err != nil {
		respondError(w, "exec", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
