package gateway

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/safetrade/escrow-engine/src/deliverable"
	"github.com/safetrade/escrow-engine/src/gateway/request"
	"github.com/safetrade/escrow-engine/src/gateway/response"
	"github.com/safetrade/escrow-engine/src/ledger"
	. "github.com/safetrade/escrow-engine/src/utils/logger"
	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/gin-gonic/gin"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, deliverable.ErrNotFound),
		errors.Is(err, deliverable.ErrNoProof):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrForbidden), errors.Is(err, deliverable.ErrNotResponsible):
		return http.StatusForbidden
	case errors.Is(err, ledger.ErrAlreadyConfirmed),
		errors.Is(err, ledger.ErrAlreadyDisputed),
		errors.Is(err, ledger.ErrInvalidTransition):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (self *Server) failed(c *gin.Context, err error) {
	status := statusOf(err)
	switch status {
	case http.StatusBadRequest:
		self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
	case http.StatusForbidden:
		self.monitor.GetReport().Gateway.Errors.Forbidden.Inc()
	case http.StatusInternalServerError:
		self.monitor.GetReport().Gateway.Errors.DbError.Inc()
	}
	LOGE(c, err, status).Warn("Request failed")
}

// partyOf resolves the caller's role, rejecting outsiders and arbiters
func (self *Server) partyOf(c *gin.Context, escrowID string) (party model.Party, ok bool) {
	view, err := self.ledger.Get(c.Request.Context(), escrowID, callerID(c))
	if err != nil {
		self.failed(c, err)
		return
	}

	party, ok = view.Escrow.PartyOf(callerID(c))
	if !ok {
		self.failed(c, ledger.ErrForbidden)
	}
	return
}

func (self *Server) onCreateEscrow(c *gin.Context) {
	in := new(request.CreateEscrow)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	deliverables := make([]ledger.DeliverableInput, len(in.Deliverables))
	for i, d := range in.Deliverables {
		deliverables[i] = ledger.DeliverableInput{
			Title:            d.Title,
			Description:      d.Description,
			Type:             model.DeliverableType(d.Type),
			ResponsibleParty: model.Party(d.ResponsibleParty),
		}
	}

	escrow, created, err := self.ledger.Create(c.Request.Context(), ledger.CreateInput{
		InitiatorID:     callerID(c),
		ParticipantID:   in.ParticipantID,
		Title:           in.Title,
		Description:     in.Description,
		Deliverables:    deliverables,
		ArbiterRequired: in.ArbiterRequired,
		ArbiterID:       in.ArbiterID,
		Lifetime:        self.Config.Gateway.EscrowLifetime,
	})
	if err != nil {
		self.failed(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.EscrowsCreated.Inc()

	out := response.EscrowOf(escrow)
	for _, d := range created {
		out.Deliverables = append(out.Deliverables, response.DeliverableOf(d))
	}
	out.Message = fmt.Sprintf("Escrow created with %d deliverables, it expires at %s.",
		len(created), escrow.ExpiresAt.Format("2006-01-02 15:04 MST"))

	c.JSON(http.StatusCreated, out)
}

func (self *Server) onGetEscrow(c *gin.Context) {
	view, err := self.ledger.Get(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		self.failed(c, err)
		return
	}

	c.JSON(http.StatusOK, response.ViewOf(view))
}

func (self *Server) onConfirm(c *gin.Context) {
	in := new(request.Confirm)
	if c.Request.ContentLength > 0 {
		err := c.ShouldBindJSON(in)
		if err != nil {
			self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
			LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
			return
		}
	}

	party, ok := self.partyOf(c, c.Param("id"))
	if !ok {
		return
	}

	escrow, completed, err := self.aggregator.Confirm(c.Request.Context(), c.Param("id"), party, callerID(c), in.Notes)
	if err != nil {
		self.failed(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.ConfirmationsSaved.Inc()

	out := response.EscrowOf(escrow)
	if completed {
		self.monitor.GetReport().Gateway.State.EscrowsCompleted.Inc()
		out.Message = "All parties confirmed, the escrow is completed."
	} else {
		out.Message = "Your confirmation was recorded, waiting for the other party."
	}

	c.JSON(http.StatusOK, out)
}

func (self *Server) onDispute(c *gin.Context) {
	in := new(request.Dispute)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	party, ok := self.partyOf(c, c.Param("id"))
	if !ok {
		return
	}

	escrow, err := self.coordinator.RequestArbiter(c.Request.Context(), c.Param("id"), party, callerID(c), in.Reason, in.Details, in.Evidence)
	if err != nil {
		self.failed(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.DisputesOpened.Inc()

	out := response.EscrowOf(escrow)
	out.Message = "Dispute opened, an arbiter will review the escrow. Confirmations are frozen until the decision."

	c.JSON(http.StatusOK, out)
}

func (self *Server) onCancel(c *gin.Context) {
	party, ok := self.partyOf(c, c.Param("id"))
	if !ok {
		return
	}

	escrow, _, err := self.ledger.Transition(c.Request.Context(), c.Param("id"), ledger.Event{
		Action: ledger.ActionCancel,
		Party:  party,
		Actor:  callerID(c),
	})
	if err != nil {
		self.failed(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.EscrowsCancelled.Inc()

	out := response.EscrowOf(escrow)
	out.Message = "The escrow was cancelled."

	c.JSON(http.StatusOK, out)
}

func (self *Server) onReview(c *gin.Context) {
	escrow, err := self.coordinator.Review(c.Request.Context(), c.Param("id"), callerID(c))
	if err != nil {
		self.failed(c, err)
		return
	}

	out := response.EscrowOf(escrow)
	out.Message = "The escrow is now under arbiter review."

	c.JSON(http.StatusOK, out)
}

// Recomputes the status projection from the event log and repairs the
// cached row when it drifted
func (self *Server) onReconcile(c *gin.Context) {
	projection, repaired, err := self.ledger.Reconcile(c.Request.Context(), c.Param("id"))
	if err != nil {
		self.failed(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   projection.Status,
		"repaired": repaired,
	})
}

func (self *Server) onResolve(c *gin.Context) {
	in := new(request.Resolve)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	settlement := ledger.Settlement(in.Settlement)
	if settlement == "" {
		settlement = ledger.SettlementComplete
	}

	escrow, err := self.coordinator.Resolve(c.Request.Context(), c.Param("id"), callerID(c),
		model.ArbiterDecision(in.Decision), settlement)
	if err != nil {
		self.failed(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.DisputesResolved.Inc()
	if escrow.Status == model.EscrowStatusCompleted {
		self.monitor.GetReport().Gateway.State.EscrowsCompleted.Inc()
	} else {
		self.monitor.GetReport().Gateway.State.EscrowsCancelled.Inc()
	}

	out := response.EscrowOf(escrow)
	out.Message = fmt.Sprintf("The dispute was resolved %s, the escrow is %s.",
		in.Decision, escrow.Status)

	c.JSON(http.StatusOK, out)
}
