// Package lang implements a small declarative, functional expression
// language in the style of Nix: a lexer, a precedence-climbing parser, and a
// tree-walking evaluator that supports partial evaluation.
//
// # Pipeline
//
//	source text → Tokenize → []Token → Parse → Node → Eval(Node, *Env) → Value
//
// A [Source] owns the input text. Tokens and nodes locate their text with a
// [Span] into it, and string values produced from literals share its memory.
//
// # Grammar
//
// Informal EBNF, loosest binding first. Every binary tier is
// left-associative.
//
//	Expr        → Let | With | If | Arrow
//	Let         → 'let' Binding* 'in' Expr
//	With        → 'with' Expr ';' Expr
//	If          → 'if' Expr 'then' Expr 'else' Expr
//	Arrow       → Or ('->' Or)*
//	Or          → And ('||' And)*
//	And         → Equality ('&&' Equality)*
//	Equality    → Relational (('==' | '!=') Relational)*
//	Relational  → Update (('<' | '<=' | '>' | '>=') Update)*
//	Update      → Not ('//' Not)*
//	Not         → '!' Not | Additive
//	Additive    → Mult (('+' | '-') Mult)*
//	Mult        → Concat (('*' | '/') Concat)*
//	Concat      → Has ('++' Has)*
//	Has         → Negation ('?' Negation)*
//	Negation    → '-' Negation | Application
//	Application → Selection Selection*
//	Selection   → Term ('.' Ident)*
//	Term        → Literal | Ident | '(' Expr ')' | List | Set | Let | With | If
//	List        → '[' Selection* ']'
//	Set         → 'rec'? '{' Binding* '}'
//	Binding     → Ident '=' Expr ';' | 'inherit' Ident* ';'
//
// Juxtaposition applies a function only when the callee is an identifier,
// with, let, selection or application, and the next token can start a term.
//
// # Example
//
//	let
//	  pkgs = import <nixpkgs>;
//	  name = "hello";
//	  version = 2;
//	in {
//	  inherit name;
//	  full = name + "-" + toString version;
//	  src = pkgs.fetch;
//	}
//
// # Partial evaluation
//
// A name bound nowhere evaluates to a [Dep] on that name. Operations on a Dep
// yield a Dep, so an expression with free variables evaluates as far as its
// bound parts allow. An operation on two Dep operands fails with
// [ErrUnresolvedDep] unless [WithMergeDeps] is given.
//
// # Scoping
//
// The [Env] is a stack of frames. A name resolves to:
//
//  1. The innermost local binding (let, rec set, host bindings, builtins)
//  2. The most recently attached with-set, innermost frame first
//  3. A Dep on the name, or [ErrUndefinedVariable] when Dep is disallowed
//
// Bindings of let and rec sets are evaluated on first use, so they may refer
// to each other in any order. A binding that depends on itself fails with
// [ErrInfiniteRecursion].
package lang
