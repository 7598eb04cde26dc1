package codegen

// Prelude is prepended to every emitted program. It defines the runtime
// support the lowering relies on:
//
//	$VOID    the "no value" sentinel returned by functions and println!
//	$range   inclusive range iterator; iterate() steps and tests the cursor
//	$panic   panic! intrinsic, throws an Error prefixed with "error: "
//	$println println! intrinsic
//	$record  blueprint of anonymous new { ... } records
const Prelude = `const $VOID = Object.freeze({ $type: 'void', $value: null });

const $range = class {
  constructor(left, right) {
    this.left = left;
    this.right = right;
    this.index = left;
    this.value = $VOID;
  }

  iterate() {
    if (this.index > this.right) {
      return false;
    }
    this.value = this.index++;
    return true;
  }
};

const $panic = function(msg) {
  throw new Error('error: ' + msg);
};

const $println = function(...params) {
  if (params.length === 0) {
    return $VOID;
  }
  console.log(...params.map((param) => param === $VOID ? 'void' : param));
  return $VOID;
};

const $record = class {
  constructor($param = {}) {
    Object.assign(this, $param);
  }
};
`

// builtins maps name!(...) calls to their prelude intrinsics.
var builtins = map[string]string{
	"println": "$println",
	"panic":   "$panic",
}
