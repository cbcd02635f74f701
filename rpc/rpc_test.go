package rpc

import (
	"errors"
	"fmt"
	"testing"

	"MandelbrotRenderer/misc"
)

type Echo struct{}

func (Echo) Upper(request string, reply *string) error {
	if request == "" {
		return errors.New("empty request")
	}
	*reply = request + "!"
	return nil
}

func TestTcpServerRoundTrip(t *testing.T) {
	port, err := misc.GetFreePort()
	if err != nil {
		t.Fatalf("GetFreePort: %v", err)
	}
	server := NewTcpServer(Echo{}, fmt.Sprintf("localhost:%d", port), "Echo")
	if err := server.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	defer server.Stop()

	client := NewTcpClient(server.Addr(), "EchoClient")
	if err := client.Call("Echo.Upper", "hi", new(string)); err == nil {
		t.Error("Call succeeded before Connect")
	}
	if err := client.Connect(); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	var reply string
	if err := client.Call("Echo.Upper", "hi", &reply); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if reply != "hi!" {
		t.Errorf("reply = %q", reply)
	}
	if err := client.Call("Echo.Upper", "", &reply); err == nil {
		t.Error("expected the remote error")
	}

	if err := client.Disconnect(); err != nil {
		t.Errorf("Disconnect: %v", err)
	}
	if err := client.Disconnect(); err == nil {
		t.Error("second Disconnect should fail")
	}
}
