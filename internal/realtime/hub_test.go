package realtime_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/familyone/factory-ops/internal/auth"
	"github.com/familyone/factory-ops/internal/core/events"
	"github.com/familyone/factory-ops/internal/realtime"
	"github.com/familyone/factory-ops/pkg/logger"
)

func TestRealtimeHub(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Realtime Hub Suite")
}

var _ = Describe("Realtime Hub", func() {
	var hub *realtime.Hub

	BeforeEach(func() {
		hub = realtime.NewHub()
	})

	Describe("Message encoding", func() {
		It("should frame event name and JSON data", func() {
			msg := realtime.Message{Event: "report:new", Data: map[string]string{"id": "r1"}}
			Expect(string(msg.Encode())).To(Equal("event: report:new\ndata: {\"id\":\"r1\"}\n\n"))
		})

		It("should fall back to an empty object for unencodable data", func() {
			msg := realtime.Message{Event: "report:new", Data: make(chan int)}
			Expect(string(msg.Encode())).To(Equal("event: report:new\ndata: {}\n\n"))
		})
	})

	Describe("Register and Unregister", func() {
		It("should track connected clients", func() {
			id1, _ := hub.Register(auth.RoleWorker)
			id2, _ := hub.Register(auth.RoleManager)
			Expect(hub.ClientCount()).To(Equal(2))

			hub.Unregister(id1)
			Expect(hub.ClientCount()).To(Equal(1))
			hub.Unregister(id2)
			Expect(hub.ClientCount()).To(Equal(0))
		})

		It("should close the channel on unregister", func() {
			id, ch := hub.Register(auth.RoleWorker)
			hub.Unregister(id)

			_, open := <-ch
			Expect(open).To(BeFalse())
		})

		It("should tolerate unregistering an unknown id", func() {
			hub.Unregister("missing")
			Expect(hub.ClientCount()).To(Equal(0))
		})
	})

	Describe("Broadcast", func() {
		It("should reach every client", func() {
			_, ch1 := hub.Register(auth.RoleWorker)
			_, ch2 := hub.Register("")

			hub.Broadcast(realtime.Message{Event: "announcement:new", Data: map[string]string{"id": "a1"}})

			payload := <-ch1
			Expect(string(payload)).To(ContainSubstring("event: announcement:new"))
			Expect(<-ch2).To(Equal(payload))
		})

		It("should drop messages for a saturated client instead of blocking", func() {
			_, ch := hub.Register(auth.RoleWorker)

			for i := 0; i < 100; i++ {
				hub.Broadcast(realtime.Message{Event: "report:new", Data: i})
			}

			Expect(len(ch)).To(Equal(64))
		})
	})

	Describe("SendToRole", func() {
		It("should skip clients with other roles", func() {
			_, managerCh := hub.Register(auth.RoleManager)
			_, workerCh := hub.Register(auth.RoleWorker)

			hub.SendToRole(auth.RoleManager, realtime.Message{Event: "request:new", Data: map[string]string{"id": "q1"}})

			Expect(managerCh).To(HaveLen(1))
			Expect(workerCh).To(BeEmpty())
		})
	})

	Describe("Bridge", func() {
		It("should forward bus events to connected clients", func() {
			bus := events.NewEventBus(logger.LoggerWrapper())
			realtime.Bridge(bus, hub)

			_, ch := hub.Register(auth.RoleWorker)

			err := bus.PublishSync(context.Background(), events.NewDomainEvent(events.LeaveNew, map[string]string{"id": "l1"}))
			Expect(err).NotTo(HaveOccurred())

			var payload []byte
			Eventually(ch).Should(Receive(&payload))
			Expect(string(payload)).To(ContainSubstring("event: leave:new"))
		})
	})
})
