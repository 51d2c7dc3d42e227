// Package script runs tengo edit scripts against a clip.
//
// A script sees a global `clip` object whose functions address components by
// full path:
//
//	n := clip.add("/body", "tail")
//	clip.key(n, 0, "tail#0")
//	clip.event(4, "swish")
//	clip.log("length", clip.length())
//
// Edit failures come back as tengo error values so scripts can test them
// with is_error.
package script

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/spriteclip/clip"
)

// Result is what a script run leaves behind besides its edits on the clip.
type Result struct {
	Log  []string
	Vars map[string]any
}

func Run(c *clip.Clip, src []byte) (*Result, error) {
	return RunContext(context.Background(), c, src)
}

// RunContext compiles src with the tengo standard library available and runs
// it against c. The run is aborted when ctx is done.
func RunContext(ctx context.Context, c *clip.Clip, src []byte) (*Result, error) {
	if c == nil {
		return nil, fmt.Errorf("script: nil clip")
	}
	res := &Result{Vars: map[string]any{}}

	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := s.Add("clip", buildClipObject(c, res)); err != nil {
		return nil, err
	}
	if err := s.Add("clip_name", c.Name()); err != nil {
		return nil, err
	}

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile: %w", err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return res, fmt.Errorf("script: run: %w", err)
	}

	for _, v := range compiled.GetAll() {
		switch v.Name() {
		case "clip", "clip_name":
			continue
		}
		res.Vars[v.Name()] = objectToAny(v.Object())
	}
	return res, nil
}

func buildClipObject(c *clip.Clip, res *Result) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["find"] = &tengo.UserFunction{Name: "find", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, ok := c.FindByPath(objectAsString(args[0]))
		if !ok {
			return tengo.UndefinedValue, nil
		}
		return componentObject(n), nil
	}}

	values["add"] = &tengo.UserFunction{Name: "add", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		parent, errObj := lookup(c, args[0])
		if errObj != nil {
			return errObj, nil
		}
		n, err := c.AddComponent(parent, objectAsString(args[1]))
		if err != nil {
			return errorObject(err), nil
		}
		return &tengo.String{Value: n.FullPath()}, nil
	}}

	values["remove"] = &tengo.UserFunction{Name: "remove", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, errObj := lookup(c, args[0])
		if errObj != nil {
			return errObj, nil
		}
		if err := c.RemoveComponent(n); err != nil {
			return errorObject(err), nil
		}
		return tengo.TrueValue, nil
	}}

	values["rename"] = &tengo.UserFunction{Name: "rename", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, errObj := lookup(c, args[0])
		if errObj != nil {
			return errObj, nil
		}
		if err := c.Rename(n, objectAsString(args[1])); err != nil {
			return errorObject(err), nil
		}
		return &tengo.String{Value: n.FullPath()}, nil
	}}

	values["move"] = &tengo.UserFunction{Name: "move", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, errObj := lookup(c, args[0])
		if errObj != nil {
			return errObj, nil
		}
		parent, errObj := lookup(c, args[1])
		if errObj != nil {
			return errObj, nil
		}
		if err := c.Attach(parent, n); err != nil {
			return errorObject(err), nil
		}
		return &tengo.String{Value: n.FullPath()}, nil
	}}

	// key(path, frame, ref[, kind])
	values["key"] = &tengo.UserFunction{Name: "key", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 || len(args) > 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		n, errObj := lookup(c, args[0])
		if errObj != nil {
			return errObj, nil
		}
		frame, ok := tengo.ToInt(args[1])
		if !ok || frame < 0 {
			return nil, tengo.ErrInvalidArgumentType{Name: "frame", Expected: "non-negative int", Found: args[1].TypeName()}
		}
		k := clip.Keyframe{Frame: frame, Ref: objectAsString(args[2])}
		if len(args) == 4 && strings.EqualFold(objectAsString(args[3]), clip.SubClipKey.String()) {
			k.Kind = clip.SubClipKey
		}
		if err := c.AddKeyframe(n, k); err != nil {
			return errorObject(err), nil
		}
		return tengo.TrueValue, nil
	}}

	// event(frame, name[, payload])
	values["event"] = &tengo.UserFunction{Name: "event", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 || len(args) > 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		frame, ok := tengo.ToInt(args[0])
		if !ok || frame < 0 {
			return nil, tengo.ErrInvalidArgumentType{Name: "frame", Expected: "non-negative int", Found: args[0].TypeName()}
		}
		e := clip.Event{Frame: frame, Name: objectAsString(args[1])}
		if len(args) == 3 {
			e.Payload = objectAsString(args[2])
		}
		c.SetEvents(append(c.Events(), e))
		return tengo.TrueValue, nil
	}}

	values["replace_sprites"] = &tengo.UserFunction{Name: "replace_sprites", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return replace(c.ReplaceSprites, args)
	}}

	values["replace_sub_clips"] = &tengo.UserFunction{Name: "replace_sub_clips", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return replace(c.ReplaceSubClips, args)
	}}

	values["recalc"] = &tengo.UserFunction{Name: "recalc", Value: func(args ...tengo.Object) (tengo.Object, error) {
		c.Recalculate(true)
		return tengo.TrueValue, nil
	}}

	values["length"] = &tengo.UserFunction{Name: "length", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: c.Length()}, nil
	}}

	values["paths"] = &tengo.UserFunction{Name: "paths", Value: func(args ...tengo.Object) (tengo.Object, error) {
		paths := c.Paths()
		out := make([]tengo.Object, 0, len(paths))
		for _, p := range paths {
			out = append(out, &tengo.String{Value: p})
		}
		return &tengo.Array{Value: out}, nil
	}}

	values["log"] = &tengo.UserFunction{Name: "log", Value: func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		line := strings.Join(parts, " ")
		res.Log = append(res.Log, line)
		log.Printf("script: %s: %s", c.Name(), line)
		return tengo.UndefinedValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func replace(fn func(src, dst []string) (int, error), args []tengo.Object) (tengo.Object, error) {
	if len(args) != 2 {
		return nil, tengo.ErrWrongNumArguments
	}
	src, ok := stringList(args[0])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "src", Expected: "array", Found: args[0].TypeName()}
	}
	dst, ok := stringList(args[1])
	if !ok {
		return nil, tengo.ErrInvalidArgumentType{Name: "dst", Expected: "array", Found: args[1].TypeName()}
	}
	n, err := fn(src, dst)
	if err != nil {
		return errorObject(err), nil
	}
	return &tengo.Int{Value: int64(n)}, nil
}

func lookup(c *clip.Clip, arg tengo.Object) (*clip.Component, tengo.Object) {
	path := objectAsString(arg)
	n, ok := c.FindByPath(path)
	if !ok {
		return nil, errorObject(fmt.Errorf("no component at %q", path))
	}
	return n, nil
}

func componentObject(n *clip.Component) tengo.Object {
	return &tengo.ImmutableMap{Value: map[string]tengo.Object{
		"name":      &tengo.String{Value: n.Name},
		"path":      &tengo.String{Value: n.FullPath()},
		"index":     &tengo.Int{Value: int64(n.Index())},
		"max_frame": &tengo.Int{Value: int64(n.MaxFrameIndex())},
		"keys":      &tengo.Int{Value: int64(len(n.Keyframes))},
		"children":  &tengo.Int{Value: int64(n.NumChildren())},
	}}
}

func errorObject(err error) tengo.Object {
	return &tengo.Error{Value: &tengo.String{Value: err.Error()}}
}

func stringList(obj tengo.Object) ([]string, bool) {
	var items []tengo.Object
	switch v := obj.(type) {
	case *tengo.Array:
		items = v.Value
	case *tengo.ImmutableArray:
		items = v.Value
	default:
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, objectAsString(item))
	}
	return out, true
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}

func objectToAny(obj tengo.Object) any {
	if obj == nil {
		return nil
	}

	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	case *tengo.Int:
		return int(v.Value)
	case *tengo.Float:
		return v.Value
	case *tengo.Bool:
		return !v.IsFalsy()
	case *tengo.Array:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.ImmutableArray:
		out := make([]any, 0, len(v.Value))
		for _, item := range v.Value {
			out = append(out, objectToAny(item))
		}
		return out
	case *tengo.Map:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.ImmutableMap:
		out := make(map[string]any, len(v.Value))
		for k, item := range v.Value {
			out[k] = objectToAny(item)
		}
		return out
	case *tengo.Undefined:
		return nil
	default:
		return v.String()
	}
}
