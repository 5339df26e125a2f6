/*
Package snakes implements the client side of the snakes game protocol: connecting to a server, announcing the player name and answering server events with commands.

Commands and events are JSON text frames over a WebSocket. A command is an object with the command name as its only key:

	{"SetName": "Alice"}
	{"Turn": "Clockwise"}

The server pushes events such as {"Tick": {...}} once per game tick. The server does not acknowledge SetName; a rejected name shows up as the server closing the connection.
*/
package snakes
