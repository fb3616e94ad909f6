// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Waymark Contributors

package lua

import (
	"time"

	"github.com/oklog/ulid/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/waymark/waymark/pkg/event"
)

const payloadTypeName = "waymark.payload"

// payloadRef is the userdata value handed to Lua callbacks.
type payloadRef struct {
	typ     event.Type
	payload event.Payload
}

var payloadMethods = map[string]lua.LGFunction{
	"type":        payloadType,
	"id":          payloadID,
	"world":       payloadWorld,
	"timestamp":   payloadTimestamp,
	"cancellable": payloadCancellable,
	"cancelled":   payloadCancelled,
	"cancel":      payloadCancel,
}

func registerPayloadType(L *lua.LState) {
	mt := L.NewTypeMetatable(payloadTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), payloadMethods))
}

func pushPayload(L *lua.LState, typ event.Type, p event.Payload) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = &payloadRef{typ: typ, payload: p}
	L.SetMetatable(ud, L.GetTypeMetatable(payloadTypeName))
	return ud
}

func checkPayload(L *lua.LState) *payloadRef {
	ud := L.CheckUserData(1)
	if ref, ok := ud.Value.(*payloadRef); ok {
		return ref
	}
	L.ArgError(1, "payload expected")
	return nil
}

func payloadType(L *lua.LState) int {
	L.Push(lua.LString(checkPayload(L).typ))
	return 1
}

func payloadID(L *lua.LState) int {
	if p, ok := checkPayload(L).payload.(interface{ ID() ulid.ULID }); ok {
		L.Push(lua.LString(p.ID().String()))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

func payloadWorld(L *lua.LState) int {
	if p, ok := checkPayload(L).payload.(interface{ World() string }); ok && p.World() != "" {
		L.Push(lua.LString(p.World()))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

func payloadTimestamp(L *lua.LState) int {
	L.Push(lua.LString(checkPayload(L).payload.Timestamp().UTC().Format(time.RFC3339Nano)))
	return 1
}

func payloadCancellable(L *lua.LState) int {
	L.Push(lua.LBool(checkPayload(L).payload.IsCancellable()))
	return 1
}

func payloadCancelled(L *lua.LState) int {
	L.Push(lua.LBool(checkPayload(L).payload.IsCancelled()))
	return 1
}

// payloadCancel returns true, or false and a message when the payload is not
// cancellable, so scripts can recover without pcall.
func payloadCancel(L *lua.LState) int {
	if err := checkPayload(L).payload.Cancel(); err != nil {
		L.Push(lua.LFalse)
		L.Push(lua.LString(err.Error()))
		return 2
	}
	L.Push(lua.LTrue)
	return 1
}
