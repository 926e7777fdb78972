// Package station drives a lock station over a serial link.
//
// A Station owns one serial connection and a rolling-code counter. Commands
// are sent from the caller's goroutine; lines received from the device are
// decoded on a background goroutine and handed over on [Station.Lines], which
// the caller drains from its own loop.
//
// # Basic Usage
//
//	st, err := station.New(station.Config{Port: "/dev/ttyUSB0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := st.Start(ctx); err != nil {
//	    log.Fatal(err) // the port could not be opened
//	}
//	defer st.Stop()
//
//	_ = st.SendMessage("EXX", "ABC12345") // AT+SEND=0,12,EXX-ABC12345
//	_, _ = st.SendRollingCode("7")        // AT+SEND=0,100,7,1
//
//	for {
//	    select {
//	    case r := <-st.Lines():
//	        fmt.Println(r.Text)
//	    case <-st.Done():
//	        return
//	    }
//	}
//
// # Lifecycle
//
// A Station is started once. Its serial channel moves through [StateClosed],
// [StateOpening], [StateOpen], [StateClosing] and back to [StateClosed], or
// to [StateFailed] when the port cannot be opened. There is no reconnect.
//
// # Plugins
//
// Plugins registered with [WithPlugin] are initialised after the port opens
// and shut down in reverse order before it closes. They may post status
// lines through [PluginConfig].Sink.
package station
