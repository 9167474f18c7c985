package fuzztests

import (
	"testing"
)

const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"var x = 1\n",
	"var a: U8 = 200\nvar b = a + 3\n",
	"func f(a: U8, b: U8) -> (U8)\n\treturn a\nvar r = f(1, b: 2)\n",
	"if x == 1:\n\tx++\nelse if x\n\tx--\nelse\n\treturn\n",
	"for (var i in xs)\n\tspawn(10)\n\t\tdel i\n",
	"type Pair = (U8, x: U8)\nvar p: Pair\n",
	"var s = \"a\\nb\" // comment\n/* block\n comment */\n",
	"var arr: [U8; 4]\nvar sl = arr[1..3]\n",
	"# 3 \"other.dms\" 1 2\nvar y = 1\n",
	"/obj/item\n\tname = \"thing\"\n\tvar/weight = 2\n\tproc/use(mob/M)\n\t\tM.hurt(1)\n",
	"/obj/item { name = \"x\"; var/y = 1 }",
	"var x = (1, 2, (3))\nvar y = new /obj/item(1)\n",
	"\t\tvar x\n  var y\n",
	"func f() -> ()\n\t\n\n\treturn\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

// clampInput copies input so the harness may keep it, cut to maxFuzzInput.
func clampInput(input []byte) string {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return string(input)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
