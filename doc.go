// Package consolemock replaces a console with a mock that checks, call by
// call, that the code under test logs exactly what the test expects.
//
// The test declares expectations with the Expect methods and the code under
// test calls the console as usual. Each pair is compared by canonical form as
// soon as both sides exist, in FIFO order, so expectations may be declared
// before or after the calls they describe:
//
//	m := consolemock.Start(t)
//	m.ExpectWarn("disk almost full:", 91)
//	checkDisk()
//
// A mismatch fails immediately and shows where the expectation was declared
// next to where the call was made. Calls or expectations still pending when
// the mock is uninstalled are reported together.
package consolemock
