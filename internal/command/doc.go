// Package command runs the commands that custom key bindings name.
//
// Three executors are provided, all implementing
// execctx.CommandExecutor:
//
//   - Registry holds Go functions. Builtins adds send-keys, set-buffer
//     and display-message.
//   - LuaExecutor runs commands defined by Lua scripts.
//   - HostCommands forwards a command line to the multiplexer host.
//
// Chain combines them; the first executor that knows a command runs it.
//
// # Lua scripts
//
// Scripts run in a sandbox with the base, table, string and math
// libraries. They define commands and may declare bindings:
//
//	muxkeys.command("greet", function(ctx, args)
//	  ctx.write("hello " .. args[1])
//	end)
//	muxkeys.bind("g", "greet", {"world"})
//	muxkeys.bind("M-g", "greet", {"root"}, true) -- no prefix
//
// The ctx table passed to a command has the fields count and keys and
// the functions send_keys, write, run, copy and log.
package command
