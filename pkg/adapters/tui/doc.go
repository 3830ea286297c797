/*
Package tui is a full-screen terminal panel built on bubbletea.

Panel bridges the session and the bubbletea program: the relay posts turn
events to it as a ports.Surface, the runner reads submitted lines from it as an
IOHandler, and Model consumes the events inside the program's update loop.

Keys: enter sends, ctrl+y copies the latest code suggestion, ctrl+s saves it,
pgup/pgdown scroll, esc or ctrl+c quits.
*/
package tui
