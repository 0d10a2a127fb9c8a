// Package pipeline provides lazy, composable pipelines over in-process sequences.
//
// A pipeline is bound to one source and grows by appending processors: transforms (Map),
// filters (Filter) and expansions (FlatMap), plus two windowing parameters applied to the
// flattened output (Skip and Limit). Nothing runs until a terminal operation pulls elements:
// All, Cursor, Collect, ForEach, Reduce, FindFirst, AllMatch, AnyMatch or Count.
//
// Evaluation is pull-based and single-threaded. An element is computed only when the consumer
// asks for it, so short-circuiting terminals such as FindFirst and AnyMatch work on unbounded
// sources. Every element of an expansion goes through the rest of the chain before the next
// outer element is pulled, and skip and limit count elements of the flattened output.
//
// Two execution strategies produce the same output. The interpreter walks the chain stage by
// stage for every element, recursing into expansions. The compiled strategy lowers the chain
// once into a nest of fused loops, one per expansion, folding transforms and filters into single
// calls. Compile selects it explicitly; StrategyAuto selects it for chains longer than the
// configured threshold.
//
// A pipeline is single-use. Extending it after consumption started, compiling it twice, or
// consuming it twice is reported as an error matching ErrState. Builder errors are sticky:
// they are returned by Err and by the next terminal operation.
//
// Reduce, Count and AllMatch never return on an unbounded output without a Limit.
package pipeline
