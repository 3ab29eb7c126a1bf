package main

func f(n int) {
	for i := 0; i < 2; i++ {
		println(i + n)
	}
}

func main() {
	for {
		f(1)
	}
}
