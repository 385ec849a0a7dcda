package graphql

import (
	"context"
	"fmt"

	"github.com/99designs/gqlgen/graphql"
	"github.com/vektah/gqlparser/v2/ast"
)

// fieldFunc resolves one field of a GraphQL object backed by T.
type fieldFunc[T any] func(ctx context.Context, obj T, field graphql.CollectedField) (graphql.Marshaler, error)

// object marshals values of T as the GraphQL object type name.
type object[T any] struct {
	name   string
	fields map[string]fieldFunc[T]
}

// marshal resolves the selected fields of obj in selection order. A field
// error is recorded on the response and nulls the field; a null in a
// non-null field nulls the whole object.
func (o *object[T]) marshal(ctx context.Context, sel ast.SelectionSet, obj T) graphql.Marshaler {
	opCtx := graphql.GetOperationContext(ctx)
	fields := graphql.CollectFields(opCtx, sel, []string{o.name})
	out := graphql.NewFieldSet(fields)

	for i, field := range fields {
		if field.Name == "__typename" {
			out.Values[i] = graphql.MarshalString(o.name)
			continue
		}

		fc := &graphql.FieldContext{Object: o.name, Field: field, IsResolver: true}
		if field.Definition != nil {
			fc.Args = field.ArgumentMap(opCtx.Variables)
		}
		fctx := graphql.WithFieldContext(ctx, fc)

		v, err := o.resolve(fctx, obj, field)
		if err != nil {
			graphql.AddError(fctx, err)
			v = graphql.Null
		}
		if v == graphql.Null && field.Definition != nil && field.Definition.Type.NonNull {
			return graphql.Null
		}
		out.Values[i] = v
	}
	return out
}

func (o *object[T]) resolve(ctx context.Context, obj T, field graphql.CollectedField) (graphql.Marshaler, error) {
	fn, ok := o.fields[field.Name]
	if !ok {
		return nil, fmt.Errorf("field %s.%s is not supported", o.name, field.Name)
	}
	return fn(ctx, obj, field)
}

// marshalList marshals a list of non-null objects. A null element nulls the
// list.
func marshalList[T any](ctx context.Context, o *object[T], sel ast.SelectionSet, items []T) graphql.Marshaler {
	out := make(graphql.Array, len(items))
	for i := range items {
		idx := i
		ictx := graphql.WithFieldContext(ctx, &graphql.FieldContext{Index: &idx, Result: items[i]})
		out[i] = o.marshal(ictx, sel, items[i])
		if out[i] == graphql.Null {
			return graphql.Null
		}
	}
	return out
}

// leaf adapts a scalar getter to a fieldFunc.
func leaf[T any](get func(T) graphql.Marshaler) fieldFunc[T] {
	return func(_ context.Context, obj T, _ graphql.CollectedField) (graphql.Marshaler, error) {
		return get(obj), nil
	}
}

// list adapts a child list getter to a fieldFunc marshaling with o.
func list[T, C any](o **object[C], get func(T) []C) fieldFunc[T] {
	return func(ctx context.Context, obj T, field graphql.CollectedField) (graphql.Marshaler, error) {
		return marshalList(ctx, *o, field.Selections, get(obj)), nil
	}
}
