// Package wm connects to a window manager over IPC.
//
// [Client] is the transport used by the rest of the program: it delivers
// window creation events, answers exact label queries and sends commands
// addressed to a single window. [I3Client] implements it for i3 and sway.
package wm
