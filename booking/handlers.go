package booking

import (
	"log"
	"net/http"
	"strings"

	"bhraman/globals"
	"bhraman/models"
	"bhraman/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc      *Service
	invoicer *Invoicer
}

func NewHandler(svc *Service, invoicer *Invoicer) *Handler {
	return &Handler{svc: svc, invoicer: invoicer}
}

// POST /api/bookings
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in CreateInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	b, err := h.svc.Create(r.Context(), globals.UserFrom(r.Context()), in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, utils.M{
		"message":   "Booking created",
		"bookingId": b.ID,
		"data":      b,
	})
}

// GET /api/bookings
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	items, total, err := h.svc.ListForUser(r.Context(), globals.UserFrom(r.Context()), opts)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.NewPage(items, total, opts.Page, opts.Limit))
}

// GET /api/bookings/:id
func (h *Handler) GetMine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := h.svc.GetForUser(r.Context(), globals.UserFrom(r.Context()), ps.ByName("id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": v})
}

// GET /api/bookings/:id/invoice
func (h *Handler) InvoiceMine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := h.svc.GetForUser(r.Context(), globals.UserFrom(r.Context()), ps.ByName("id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	h.writeInvoice(w, r, v)
}

// GET /api/admin/bookings
func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	q := r.URL.Query()
	items, total, err := h.svc.List(r.Context(), Filter{
		Status:        models.BookingStatus(strings.TrimSpace(q.Get("status"))),
		PaymentStatus: models.PaymentStatus(strings.TrimSpace(q.Get("paymentStatus"))),
		QueryOptions:  opts,
	})
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.NewPage(items, total, opts.Page, opts.Limit))
}

// GET /api/admin/bookings/:id
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"data": v})
}

// PATCH /api/admin/bookings/:id
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in UpdateInput
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	v, err := h.svc.Update(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Booking updated", "data": v})
}

// DELETE /api/admin/bookings/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Booking deleted"})
}

// POST /api/admin/bookings/:id/complete-payment
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		PaymentID string `json:"paymentId"`
	}
	if r.ContentLength != 0 {
		if err := utils.DecodeJSON(r, &body); err != nil {
			utils.RespondError(w, r, err)
			return
		}
	}
	v, err := h.svc.CompletePayment(r.Context(), ps.ByName("id"), body.PaymentID)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Payment completed", "data": v})
}

// POST /api/admin/bookings/:id/send-confirmation
func (h *Handler) SendConfirmation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := h.svc.SendConfirmation(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"message": "Confirmation queued for " + v.CustomerEmail,
	})
}

// GET /api/admin/bookings/:id/invoice
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	h.writeInvoice(w, r, v)
}

func (h *Handler) writeInvoice(w http.ResponseWriter, r *http.Request, v *View) {
	pdf, err := h.invoicer.Render(v)
	if err != nil {
		utils.RespondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=invoice-"+v.ID+".pdf")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		log.Printf("[booking] invoice write failed id=%s err=%v", v.ID, err)
	}
}
