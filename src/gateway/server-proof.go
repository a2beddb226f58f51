package gateway

import (
	"fmt"
	"net/http"

	"github.com/safetrade/escrow-engine/src/deliverable"
	"github.com/safetrade/escrow-engine/src/gateway/request"
	"github.com/safetrade/escrow-engine/src/gateway/response"
	"github.com/safetrade/escrow-engine/src/ledger"
	"github.com/safetrade/escrow-engine/src/oracle"
	. "github.com/safetrade/escrow-engine/src/utils/logger"
	"github.com/safetrade/escrow-engine/src/utils/model"

	"github.com/gin-gonic/gin"
)

func (self *Server) onSubmitProof(c *gin.Context) {
	in := new(request.SubmitProof)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	deliv, err := self.tracker.Get(c.Request.Context(), c.Param("did"))
	if err != nil {
		self.failed(c, err)
		return
	}
	if deliv.EscrowID != c.Param("id") {
		self.failed(c, deliverable.ErrNotFound)
		return
	}

	view, err := self.ledger.Get(c.Request.Context(), deliv.EscrowID, callerID(c))
	if err != nil {
		self.failed(c, err)
		return
	}
	party, ok := view.Escrow.PartyOf(callerID(c))
	if !ok {
		self.failed(c, ledger.ErrForbidden)
		return
	}
	if view.Escrow.Status.IsTerminal() {
		self.failed(c, fmt.Errorf("%w: escrow is %s", ledger.ErrInvalidTransition, view.Escrow.Status))
		return
	}

	proof, deliv, err := self.tracker.RecordProof(c.Request.Context(), deliv.ID, in.ProofHash, in.Description, callerID(c), party)
	if err != nil {
		self.failed(c, err)
		return
	}

	self.monitor.GetReport().Gateway.State.ProofsSubmitted.Inc()

	out := response.ProofOf(proof)

	if deliv.Type == model.DeliverableTypePayment {
		out.Message = "Proof recorded. Payments are not verified automatically, the other party has to confirm."
	} else {
		self.engine.Submit(self.verificationOf(deliv, proof))
		out.OracleTriggered = true
		out.Message = "Proof recorded, automatic verification has been queued."
	}

	c.JSON(http.StatusOK, out)
}

// Internal endpoint re-running verification for the latest proof
func (self *Server) onVerifyDeliverable(c *gin.Context) {
	in := new(request.VerifyDeliverable)
	err := c.ShouldBindJSON(in)
	if err != nil {
		self.monitor.GetReport().Gateway.Errors.BadRequest.Inc()
		LOGE(c, err, http.StatusBadRequest).Debug("Failed to parse request")
		return
	}

	deliv, err := self.tracker.Get(c.Request.Context(), in.DeliverableID)
	if err != nil {
		self.failed(c, err)
		return
	}
	if deliv.Status == model.DeliverableStatusConfirmed {
		self.failed(c, fmt.Errorf("%w: deliverable is %s", ledger.ErrInvalidTransition, deliv.Status))
		return
	}

	proof, err := self.tracker.LatestProof(c.Request.Context(), deliv.ID)
	if err != nil {
		self.failed(c, err)
		return
	}

	verification, err := self.engine.Process(c.Request.Context(), self.verificationOf(deliv, proof))
	if err != nil {
		self.failed(c, err)
		return
	}

	c.JSON(http.StatusOK, response.VerificationOf(verification))
}

func (self *Server) verificationOf(deliv *model.Deliverable, proof *model.Proof) oracle.Request {
	return oracle.Request{
		EscrowID:         deliv.EscrowID,
		DeliverableID:    deliv.ID,
		ProofID:          proof.ID,
		ProofHash:        proof.ProofHash,
		Description:      deliv.Description,
		Type:             deliv.Type,
		ResponsibleParty: deliv.ResponsibleParty,
	}
}
