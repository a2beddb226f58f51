package relay

import (
	"testing"
	"time"

	"github.com/safetrade/escrow-engine/src/utils/config"
	"github.com/safetrade/escrow-engine/src/utils/model"
	monitor_relay "github.com/safetrade/escrow-engine/src/utils/monitoring/relay"

	"github.com/stretchr/testify/suite"
)

func TestParserTestSuite(t *testing.T) {
	suite.Run(t, new(ParserTestSuite))
}

type ParserTestSuite struct {
	suite.Suite

	monitor *monitor_relay.Monitor
	input   chan string
	parser  *Parser
}

func (s *ParserTestSuite) SetupTest() {
	s.monitor = monitor_relay.NewMonitor()
	s.input = make(chan string, 8)
	s.parser = NewParser(config.Default()).
		WithInputChannel(s.input).
		WithMonitor(s.monitor)
	s.NoError(s.parser.Start())
}

func (s *ParserTestSuite) TearDownTest() {
	s.parser.StopWait()
}

func (s *ParserTestSuite) TestParsesTriggerPayload() {
	s.input <- `{"escrow_id":"esc1","event":"initiator_confirmed"}`

	select {
	case notification := <-s.parser.Output:
		s.Equal("esc1", notification.EscrowID)
		s.Equal(model.EventInitiatorConfirmed, notification.Event)
	case <-time.After(time.Second):
		s.FailNow("no notification relayed")
	}

	s.EqualValues(1, s.monitor.GetReport().Relay.State.NotificationsRelayed.Load())
}

func (s *ParserTestSuite) TestRejectsMalformedPayload() {
	s.input <- `not json`
	s.input <- `{"event":"missing_escrow_id"}`
	s.input <- `{"escrow_id":"esc2","event":"arbiter_requested"}`

	select {
	case notification := <-s.parser.Output:
		// Malformed payloads are dropped, the valid one still arrives
		s.Equal("esc2", notification.EscrowID)
	case <-time.After(time.Second):
		s.FailNow("no notification relayed")
	}

	s.EqualValues(2, s.monitor.GetReport().Relay.Errors.ParseError.Load())
	s.EqualValues(3, s.monitor.GetReport().Relay.State.NotificationsReceived.Load())
}
